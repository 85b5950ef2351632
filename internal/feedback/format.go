// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package feedback formats failed hunks into the follow-up prompt the
// orchestration layer feeds back to the model. The engine itself never
// retries; it only makes the failure legible enough for the model to fix.
// Implements: prd004-patch-applier R4;
//
//	docs/ARCHITECTURE § Reflection.
package feedback

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-patch/pkg/types"
)

// similarityFloor is the minimum closest-match similarity worth quoting
// back; below it the quote would mislead more than help.
const similarityFloor = 0.5

// FormatFailures produces the retry text for one file's failed hunks: which
// hunks failed, what they searched for, and the closest lines the file
// actually contains.
//
// Implements: prd004-patch-applier R4.1-R4.4.
func FormatFailures(path string, failures []types.Diagnostic, applied, total int) string {
	var b strings.Builder

	noun := "hunk"
	if len(failures) != 1 {
		noun = "hunks"
	}
	fmt.Fprintf(&b, "# %d %s failed to apply to %s!\n", len(failures), noun, path)

	for _, d := range failures {
		fmt.Fprintf(&b, "\n## Hunk %d: %s does not contain these %d exact lines in a row:\n",
			d.HunkIndex, path, countLines(d.SearchText))
		b.WriteString("```\n")
		b.WriteString(d.SearchText)
		b.WriteString("```\n")

		if d.ClosestMatch != "" && d.Similarity >= similarityFloor {
			fmt.Fprintf(&b, "\nDid you mean to match these actual lines from %s (lines %d-%d)?\n",
				path, d.ClosestLineStart, d.ClosestLineEnd)
			b.WriteString("```\n")
			b.WriteString(d.ClosestMatch)
			b.WriteString("\n```\n")
		}
	}

	b.WriteString("\nThe hunk must apply cleanly to the lines in the file. ")
	b.WriteString("Do not skip blank lines, comments, docstrings, or indentation.\n")

	if applied > 0 {
		noun = "hunk was"
		if applied != 1 {
			noun = "hunks were"
		}
		fmt.Fprintf(&b, "\n# The other %d %s applied successfully.\n", applied, noun)
		b.WriteString("Don't re-send them. Just reply with fixed versions of the hunks above that failed.\n")
	}

	return b.String()
}

func countLines(s string) int {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}
