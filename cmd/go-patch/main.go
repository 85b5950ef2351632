// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command go-patch applies model-described edits to local files. It plays
// the role of the orchestration layer around the patch engine for manual
// and scripted use: it reads an already-produced response, loads the
// snapshots, runs the engine, and persists the results.
// Implements: prd006-cli R1;
//
//	docs/ARCHITECTURE § Project Structure.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	gitpkg "github.com/petar-djukic/go-patch/internal/git"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "go-patch",
		Short: "Apply LLM-described edits to local files",
		Long:  "go-patch parses a model response in one of the supported edit formats (whole, diff, udiff), fuzzy-matches each hunk against the current file content, and writes the patched files.",
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Repository root directory")
	rootCmd.PersistentFlags().String("format", "diff", "Edit format: whole, diff, or udiff")
	rootCmd.PersistentFlags().Int("workers", 4, "Maximum files patched concurrently")
	rootCmd.PersistentFlags().Bool("no-git", false, "Disable git operations")

	// Bind flags to viper.
	viper.BindPFlag("workdir", rootCmd.PersistentFlags().Lookup("workdir"))
	viper.BindPFlag("format", rootCmd.PersistentFlags().Lookup("format"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("no-git", rootCmd.PersistentFlags().Lookup("no-git"))

	// Env vars: GO_PATCH_FORMAT, GO_PATCH_WORKDIR, etc.
	viper.SetEnvPrefix("GO_PATCH")
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".go-patch")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	// Add commands.
	rootCmd.AddCommand(newApplyCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print go-patch version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("go-patch %s\n", version)
		},
	}
}

// newUndoCmd creates the "undo" command.
func newUndoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo",
		Short: "Revert the last go-patch commit",
		Long:  "Undo performs a soft reset of the last commit if it was made by go-patch.",
		RunE: func(cmd *cobra.Command, args []string) error {
			workDir := viper.GetString("workdir")

			repo, err := gitpkg.Open(gitpkg.Config{WorkDir: workDir})
			if err != nil {
				return fmt.Errorf("opening repository: %w", err)
			}

			if err := repo.Undo(); err != nil {
				return fmt.Errorf("undo failed: %w", err)
			}

			fmt.Println("Successfully reverted last go-patch commit.")
			return nil
		},
	}
}
