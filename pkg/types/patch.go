// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd001-patch-interface R2, R3 (EditFormat, EditInstruction,
//
//	PatchOutcome); prd003-fuzzy-matcher R4 (Diagnostic).
package types

import "fmt"

// EditFormat identifies which textual encoding a response uses to describe
// file changes.
type EditFormat int

const (
	FormatWholeFile     EditFormat = iota // Filename line followed by a fenced block of full file content
	FormatSearchReplace                   // <<<<<<< SEARCH / ======= / >>>>>>> REPLACE blocks
	FormatUnifiedDiff                     // Unified-diff-like hunks with @@ headers
)

func (f EditFormat) String() string {
	switch f {
	case FormatWholeFile:
		return "whole"
	case FormatSearchReplace:
		return "diff"
	case FormatUnifiedDiff:
		return "udiff"
	default:
		return "unknown"
	}
}

// ParseFormat maps a CLI/config spelling to an EditFormat.
func ParseFormat(s string) (EditFormat, error) {
	switch s {
	case "whole", "wholefile":
		return FormatWholeFile, nil
	case "diff", "search-replace":
		return FormatSearchReplace, nil
	case "udiff", "unified":
		return FormatUnifiedDiff, nil
	}
	return 0, fmt.Errorf("unknown edit format %q", s)
}

// EditInstruction associates a target file path, as named by the model and
// not yet validated against any snapshot, with one or more ordered hunks.
// Replace marks a whole-file instruction: the single hunk's After lines are
// the complete new content and nothing is located or spliced.
type EditInstruction struct {
	FilePath string
	Hunks    []Hunk
	Replace  bool
}

// PatchStatus is the per-file outcome category.
type PatchStatus string

const (
	StatusFull    PatchStatus = "full"    // Every hunk applied
	StatusPartial PatchStatus = "partial" // Some hunks applied, some failed
	StatusFailed  PatchStatus = "failed"  // No hunk applied
)

// PatchOutcome reports what happened to one file. NewContent is nil when no
// hunk applied; otherwise it holds the full updated file text for the caller
// to persist. The engine itself never writes files.
type PatchOutcome struct {
	Status       PatchStatus `json:"status"`
	AppliedHunks int         `json:"applied_hunks"`
	TotalHunks   int         `json:"total_hunks"`
	NewContent   *string     `json:"new_content"`
	Message      string      `json:"message,omitempty"`
}

// Diagnostic describes why a hunk failed to match, with enough detail for
// the reflection formatter to quote the closest region back to the model.
type Diagnostic struct {
	FilePath         string  // File where the match was attempted
	HunkIndex        int     // 1-based index of the failed hunk within its instruction
	SearchText       string  // The hunk's Before text
	ClosestMatch     string  // Best partial match found in the file (empty if none)
	Similarity       float64 // Similarity score of the closest match
	ClosestLineStart int     // Starting line of the closest match (1-based)
	ClosestLineEnd   int     // Ending line of the closest match (1-based)
}

func (d Diagnostic) Error() string {
	if d.ClosestMatch == "" {
		return fmt.Sprintf("hunk %d: no match found in %s", d.HunkIndex, d.FilePath)
	}
	return fmt.Sprintf("hunk %d: no match in %s (closest match at lines %d-%d, similarity %.2f)",
		d.HunkIndex, d.FilePath, d.ClosestLineStart, d.ClosestLineEnd, d.Similarity)
}
