// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package feedback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/petar-djukic/go-patch/pkg/types"
)

func TestFormatFailures_SingleHunk(t *testing.T) {
	failures := []types.Diagnostic{{
		FilePath:   "main.py",
		HunkIndex:  1,
		SearchText: "def helo():\n    pass\n",
	}}

	msg := FormatFailures("main.py", failures, 0, 1)
	assert.Contains(t, msg, "# 1 hunk failed to apply to main.py!")
	assert.Contains(t, msg, "## Hunk 1: main.py does not contain these 2 exact lines in a row:")
	assert.Contains(t, msg, "def helo():\n    pass\n")
	assert.Contains(t, msg, "The hunk must apply cleanly")
	assert.NotContains(t, msg, "applied successfully")
}

func TestFormatFailures_QuotesClosestMatch(t *testing.T) {
	failures := []types.Diagnostic{{
		FilePath:         "main.py",
		HunkIndex:        2,
		SearchText:       "def helo():\n",
		ClosestMatch:     "def hello():",
		Similarity:       0.9,
		ClosestLineStart: 4,
		ClosestLineEnd:   4,
	}}

	msg := FormatFailures("main.py", failures, 1, 2)
	assert.Contains(t, msg, "Did you mean to match these actual lines from main.py (lines 4-4)?")
	assert.Contains(t, msg, "def hello():")
	assert.Contains(t, msg, "# The other 1 hunk was applied successfully.")
	assert.Contains(t, msg, "Don't re-send them.")
}

func TestFormatFailures_LowSimilarityNotQuoted(t *testing.T) {
	failures := []types.Diagnostic{{
		FilePath:     "main.py",
		HunkIndex:    1,
		SearchText:   "nothing similar\n",
		ClosestMatch: "unrelated line",
		Similarity:   0.2,
	}}

	msg := FormatFailures("main.py", failures, 0, 1)
	assert.NotContains(t, msg, "Did you mean")
	assert.NotContains(t, msg, "unrelated line")
}

func TestFormatFailures_PluralHunks(t *testing.T) {
	failures := []types.Diagnostic{
		{FilePath: "f.py", HunkIndex: 1, SearchText: "one\n"},
		{FilePath: "f.py", HunkIndex: 3, SearchText: "three\n"},
	}

	msg := FormatFailures("f.py", failures, 2, 4)
	assert.Contains(t, msg, "# 2 hunks failed to apply to f.py!")
	assert.Contains(t, msg, "## Hunk 1:")
	assert.Contains(t, msg, "## Hunk 3:")
	assert.Contains(t, msg, "# The other 2 hunks were applied successfully.")
}
