// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package patcher is the public entry point of the patch engine: it turns a
// raw model response plus a set of file snapshots into per-file patch
// outcomes.
// Implements: prd001-patch-interface R3, R4;
//
//	docs/ARCHITECTURE § Edit Session Controller.
package patcher

import (
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/petar-djukic/go-patch/internal/applier"
	"github.com/petar-djukic/go-patch/internal/editformat"
	"github.com/petar-djukic/go-patch/pkg/types"
)

const defaultWorkers = 4

// Config configures a Session.
type Config struct {
	// Workers bounds how many files are patched concurrently. Files are
	// independent; hunks within a file stay strictly ordered. Defaults to 4.
	Workers int
}

// Session processes edit responses. It is stateless across calls: every
// Process invocation is independent, and any retry looping belongs to the
// caller.
type Session struct {
	cfg Config
}

// New returns a Session with defaults applied.
func New(cfg Config) *Session {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	return &Session{cfg: cfg}
}

// Process parses the response with the parser for the declared format,
// groups the resulting instructions by file path, and applies each file's
// instructions against its snapshot. It returns one outcome per touched
// file and never mutates snapshots; callers own persistence.
//
// A response that yields no usable instructions at all is a session-level
// error, so the caller can ask the model to reformat. Per-hunk match
// failures are not errors; they degrade the affected file's outcome.
//
// Files named in the response but absent from snapshots are creations in
// the whole-file format and failed outcomes in the other two, which have no
// file text to match against.
//
// Implements: prd001-patch-interface R3.1-R3.6.
func (s *Session) Process(format types.EditFormat, response string, snapshots map[string]string) (map[string]*types.PatchOutcome, error) {
	res, err := editformat.Parse(format, response)
	if err != nil {
		return nil, fmt.Errorf("parsing %s response: %w", format, err)
	}
	if len(res.Instructions) == 0 {
		if len(res.ParseErrors) > 0 {
			return nil, fmt.Errorf("parsing %s response: no usable edits: %w", format, res.ParseErrors[0])
		}
		return nil, fmt.Errorf("parsing %s response: %w", format, &editformat.NoEditsFoundError{Format: format})
	}

	order, grouped := groupByPath(res.Instructions)

	outcomes := make(map[string]*types.PatchOutcome, len(order))
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Workers)

	for _, path := range order {
		path := path
		instr := grouped[path]
		g.Go(func() error {
			snapshot, exists := snapshots[path]

			var out *types.PatchOutcome
			if !exists && !instr.Replace {
				out = &types.PatchOutcome{
					Status:     types.StatusFailed,
					TotalHunks: len(instr.Hunks),
					Message: fmt.Sprintf(
						"%s is not in the provided snapshots; only the whole-file format can create files", path),
				}
			} else {
				out = applier.Apply(*instr, snapshot)
			}

			mu.Lock()
			outcomes[path] = out
			mu.Unlock()
			return nil
		})
	}
	g.Wait() // workers report through outcomes, never through errors

	return outcomes, nil
}

// Process is a convenience wrapper using a default Session.
func Process(format types.EditFormat, response string, snapshots map[string]string) (map[string]*types.PatchOutcome, error) {
	return New(Config{}).Process(format, response, snapshots)
}

// TargetPaths parses the response just far enough to report which file
// paths it names, in response order. Callers use it to load snapshots
// before invoking Process.
func TargetPaths(format types.EditFormat, response string) ([]string, error) {
	res, err := editformat.Parse(format, response)
	if err != nil {
		return nil, err
	}
	order, _ := groupByPath(res.Instructions)
	return order, nil
}

// groupByPath merges same-path instructions in response order into one
// instruction per file. The applier folds the merged hunk list
// sequentially, so a later block matches against the text already updated
// by an earlier one. A later whole-file block supersedes anything before
// it for that path.
func groupByPath(instructions []types.EditInstruction) ([]string, map[string]*types.EditInstruction) {
	var order []string
	grouped := make(map[string]*types.EditInstruction)

	for _, in := range instructions {
		g, ok := grouped[in.FilePath]
		if !ok {
			merged := in
			grouped[in.FilePath] = &merged
			order = append(order, in.FilePath)
			continue
		}
		if in.Replace {
			merged := in
			*g = merged
			continue
		}
		g.Hunks = append(g.Hunks, in.Hunks...)
	}
	return order, grouped
}
