// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd006-cli R2, R3.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/go-patch/internal/git"
	"github.com/petar-djukic/go-patch/internal/workspace"
	"github.com/petar-djukic/go-patch/pkg/patcher"
	"github.com/petar-djukic/go-patch/pkg/types"
)

// newApplyCmd creates the "apply" command.
func newApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply [response-file]",
		Short: "Apply the edits described in a model response",
		Long:  "Apply reads a model response from the given file (or stdin when the argument is omitted or '-'), parses it in the configured edit format, and patches the named files under the work directory.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runApply,
	}

	cmd.Flags().Bool("dry-run", false, "Report outcomes without writing files")

	return cmd
}

// runApply executes the apply command.
func runApply(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	workDir := viper.GetString("workdir")
	noGit := viper.GetBool("no-git")

	format, err := types.ParseFormat(viper.GetString("format"))
	if err != nil {
		return err
	}

	response, err := readResponse(args)
	if err != nil {
		return err
	}

	paths, err := patcher.TargetPaths(format, response)
	if err != nil {
		return fmt.Errorf("finding target files: %w", err)
	}

	snapshots, err := workspace.LoadSnapshots(workDir, paths)
	if err != nil {
		return err
	}

	// Commit any pre-existing edits first so undo only reverts patch output.
	var repo *gitpkg.Repo
	if !noGit && !dryRun {
		repo, err = gitpkg.Open(gitpkg.Config{WorkDir: workDir, AutoCommit: true, DirtyCommit: true})
		if err == nil {
			if err := repo.HandleDirty(); err != nil {
				return err
			}
		}
	}

	session := patcher.New(patcher.Config{Workers: viper.GetInt("workers")})
	outcomes, err := session.Process(format, response, snapshots)
	if err != nil {
		return err
	}

	var patched []string
	for _, path := range paths {
		out, ok := outcomes[path]
		if !ok || out.NewContent == nil {
			continue
		}
		if !dryRun {
			if err := workspace.WriteFile(workDir, path, *out.NewContent); err != nil {
				return err
			}
		}
		patched = append(patched, path)
	}

	if repo != nil && len(patched) > 0 {
		if err := repo.AutoCommit(patched); err != nil {
			return fmt.Errorf("committing patched files: %w", err)
		}
	}

	printOutcomes(outcomes)

	for _, out := range outcomes {
		if out.Status != types.StatusFull {
			return fmt.Errorf("%d of %d files fully patched", countFull(outcomes), len(outcomes))
		}
	}
	return nil
}

// readResponse reads the model response from the file argument or stdin.
func readResponse(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading response from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("reading response file: %w", err)
	}
	return string(data), nil
}

// printOutcomes writes the outcome map as JSON to stdout. The new content
// is elided; it is on disk (or suppressed by --dry-run), and echoing whole
// files would drown the status report.
func printOutcomes(outcomes map[string]*types.PatchOutcome) {
	type display struct {
		Status       types.PatchStatus `json:"status"`
		AppliedHunks int               `json:"applied_hunks"`
		TotalHunks   int               `json:"total_hunks"`
		Message      string            `json:"message,omitempty"`
	}

	report := make(map[string]display, len(outcomes))
	for path, out := range outcomes {
		report[path] = display{
			Status:       out.Status,
			AppliedHunks: out.AppliedHunks,
			TotalHunks:   out.TotalHunks,
			Message:      out.Message,
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling outcomes: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func countFull(outcomes map[string]*types.PatchOutcome) int {
	n := 0
	for _, out := range outcomes {
		if out.Status == types.StatusFull {
			n++
		}
	}
	return n
}
