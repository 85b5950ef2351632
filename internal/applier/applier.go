// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package applier applies one file's edit instruction to its snapshot text.
// Implements: prd004-patch-applier R1, R2, R3;
//
//	docs/ARCHITECTURE § Patch Applier.
package applier

import (
	"strings"

	"github.com/petar-djukic/go-patch/internal/feedback"
	"github.com/petar-djukic/go-patch/internal/matcher"
	"github.com/petar-djukic/go-patch/pkg/types"
)

// Apply runs every hunk of the instruction, in order, against the evolving
// in-memory text: each hunk is matched against the output of the previous
// splice, never the original snapshot. A failed hunk is recorded and the
// remaining hunks still run; one bad hunk must not abort the rest, which
// are likely still valid.
//
// The caller owns persistence; Apply never touches the filesystem.
//
// Implements: prd004-patch-applier R1.1-R1.5, R3.1-R3.3.
func Apply(instr types.EditInstruction, content string) *types.PatchOutcome {
	if instr.Replace {
		return applyReplace(instr)
	}

	total := len(instr.Hunks)
	if total == 0 {
		return &types.PatchOutcome{
			Status:  types.StatusFailed,
			Message: "instruction contains no hunks",
		}
	}

	cur := content
	applied := 0
	var failures []types.Diagnostic

	for i, h := range instr.Hunks {
		if h.IsAppend() {
			cur = appendContent(cur, h.AfterText())
			applied++
			continue
		}

		next, _, ok := matcher.Apply(h, cur)
		if ok {
			cur = next
			applied++
			continue
		}
		failures = append(failures, diagnose(instr.FilePath, i+1, h, cur))
	}

	out := &types.PatchOutcome{
		AppliedHunks: applied,
		TotalHunks:   total,
	}
	switch {
	case applied == 0:
		out.Status = types.StatusFailed
	case applied < total:
		out.Status = types.StatusPartial
		out.NewContent = &cur
	default:
		out.Status = types.StatusFull
		out.NewContent = &cur
	}
	if len(failures) > 0 {
		out.Message = feedback.FormatFailures(instr.FilePath, failures, applied, total)
	}
	return out
}

// applyReplace handles whole-file instructions: the single hunk's After
// lines are the complete new content. This doubles as file creation when
// the path had no snapshot.
//
// Implements: prd004-patch-applier R2.3.
func applyReplace(instr types.EditInstruction) *types.PatchOutcome {
	content := ""
	if len(instr.Hunks) > 0 {
		content = instr.Hunks[len(instr.Hunks)-1].AfterText()
	}
	return &types.PatchOutcome{
		Status:       types.StatusFull,
		AppliedHunks: 1,
		TotalHunks:   1,
		NewContent:   &content,
	}
}

// appendContent appends text to the end of the file, inserting a newline
// separator when the existing content does not end with one.
func appendContent(content, text string) string {
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	return content + text
}

// diagnose builds the per-hunk failure record, quoting the closest region
// the file actually contains.
func diagnose(path string, index int, h types.Hunk, content string) types.Diagnostic {
	search := h.BeforeText()
	closest, sim, lineStart, lineEnd := matcher.ClosestMatch(content, strings.TrimSuffix(search, "\n"))
	return types.Diagnostic{
		FilePath:         path,
		HunkIndex:        index,
		SearchText:       search,
		ClosestMatch:     closest,
		Similarity:       sim,
		ClosestLineStart: lineStart,
		ClosestLineEnd:   lineEnd,
	}
}
