// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package applier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-patch/pkg/types"
)

func ctx(text string) types.Line    { return types.Line{Kind: types.Context, Text: text} }
func remove(text string) types.Line { return types.Line{Kind: types.Remove, Text: text} }
func add(text string) types.Line    { return types.Line{Kind: types.Add, Text: text} }

func TestApply_SingleHunkFull(t *testing.T) {
	content := "def main():\n    print(\"Hello\")\n    return\n"
	instr := types.EditInstruction{
		FilePath: "main.py",
		Hunks: []types.Hunk{{Lines: []types.Line{
			ctx("def main():"),
			remove("    print(\"Hello\")"),
			add("    print(\"Goodbye\")"),
		}}},
	}

	out := Apply(instr, content)
	assert.Equal(t, types.StatusFull, out.Status)
	assert.Equal(t, 1, out.AppliedHunks)
	assert.Equal(t, 1, out.TotalHunks)
	require.NotNil(t, out.NewContent)
	assert.Equal(t, "def main():\n    print(\"Goodbye\")\n    return\n", *out.NewContent)
	assert.Empty(t, out.Message)
}

func TestApply_NoMatchFails(t *testing.T) {
	content := "actual content of the file\n"
	instr := types.EditInstruction{
		FilePath: "main.py",
		Hunks: []types.Hunk{{Lines: []types.Line{
			remove("text that appears nowhere in this file"),
			add("replacement"),
		}}},
	}

	out := Apply(instr, content)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Equal(t, 0, out.AppliedHunks)
	assert.Equal(t, 1, out.TotalHunks)
	assert.Nil(t, out.NewContent)
	assert.Contains(t, out.Message, "1 hunk failed to apply to main.py")
	assert.Contains(t, out.Message, "text that appears nowhere in this file")
}

func TestApply_PartialFailureIsolated(t *testing.T) {
	content := "alpha section begins\nbeta section begins\ngamma section begins\n"
	instr := types.EditInstruction{
		FilePath: "doc.txt",
		Hunks: []types.Hunk{
			{Lines: []types.Line{
				remove("alpha section begins"),
				add("alpha section revised"),
			}},
			{Lines: []types.Line{
				remove("text the model invented out of thin air"),
				add("never applied"),
			}},
			{Lines: []types.Line{
				remove("gamma section begins"),
				add("gamma section revised"),
			}},
		},
	}

	out := Apply(instr, content)
	assert.Equal(t, types.StatusPartial, out.Status)
	assert.Equal(t, 2, out.AppliedHunks)
	assert.Equal(t, 3, out.TotalHunks)
	require.NotNil(t, out.NewContent)
	assert.Equal(t,
		"alpha section revised\nbeta section begins\ngamma section revised\n",
		*out.NewContent)
	assert.Contains(t, out.Message, "## Hunk 2:")
	assert.Contains(t, out.Message, "The other 2 hunks were applied successfully.")
}

func TestApply_SequentialHunksSeeEvolvingContent(t *testing.T) {
	content := "def factorial(n):\n    \"\"\"Return n factorial.\"\"\"\n    return n\n"
	instr := types.EditInstruction{
		FilePath: "math.py",
		Hunks: []types.Hunk{
			{Lines: []types.Line{
				remove("def factorial(n):"),
				add("def factorial(number):"),
			}},
			{Lines: []types.Line{
				remove("def factorial(number):"),
				remove("    \"\"\"Return n factorial.\"\"\""),
				add("def factorial(number):"),
				add("    \"\"\"Return number factorial.\"\"\""),
			}},
		},
	}

	out := Apply(instr, content)
	assert.Equal(t, types.StatusFull, out.Status)
	require.NotNil(t, out.NewContent)
	assert.Equal(t,
		"def factorial(number):\n    \"\"\"Return number factorial.\"\"\"\n    return n\n",
		*out.NewContent)
}

func TestApply_AppendHunk(t *testing.T) {
	instr := types.EditInstruction{
		FilePath: "list.txt",
		Hunks: []types.Hunk{{Lines: []types.Line{
			add("appended line"),
		}}},
	}

	out := Apply(instr, "existing line\n")
	assert.Equal(t, types.StatusFull, out.Status)
	require.NotNil(t, out.NewContent)
	assert.Equal(t, "existing line\nappended line\n", *out.NewContent)

	// Missing final newline gets a separator first.
	out = Apply(instr, "existing line")
	require.NotNil(t, out.NewContent)
	assert.Equal(t, "existing line\nappended line\n", *out.NewContent)
}

func TestApply_WholeFileReplace(t *testing.T) {
	instr := types.EditInstruction{
		FilePath: "config.py",
		Replace:  true,
		Hunks: []types.Hunk{{Lines: []types.Line{
			add("x = 1"),
		}}},
	}

	out := Apply(instr, "old content that is entirely discarded\n")
	assert.Equal(t, types.StatusFull, out.Status)
	assert.Equal(t, 1, out.AppliedHunks)
	require.NotNil(t, out.NewContent)
	assert.Equal(t, "x = 1\n", *out.NewContent)
}

func TestApply_EmptyInstruction(t *testing.T) {
	out := Apply(types.EditInstruction{FilePath: "f.txt"}, "content\n")
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Nil(t, out.NewContent)
}

func TestApply_NearMissQuotedInMessage(t *testing.T) {
	content := "def compute_total(items):\n    return sum(items)\n"
	instr := types.EditInstruction{
		FilePath: "calc.py",
		Hunks: []types.Hunk{{Lines: []types.Line{
			remove("def compute_totals(items):"),
			remove("    return sum(item)"),
			add("def compute_totals(items, tax):"),
		}}},
	}

	out := Apply(instr, content)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Contains(t, out.Message, "Did you mean to match these actual lines")
	assert.Contains(t, out.Message, "def compute_total(items):")
}

// Applying a hunk and then its inverse must restore the original text.
func TestApply_InverseRoundTrip(t *testing.T) {
	content := "first line of the file\nsecond line of the file\nthird line of the file\n"
	forward := types.EditInstruction{
		FilePath: "f.txt",
		Hunks: []types.Hunk{{Lines: []types.Line{
			remove("second line of the file"),
			add("second line, now rewritten"),
		}}},
	}
	inverse := types.EditInstruction{
		FilePath: "f.txt",
		Hunks: []types.Hunk{{Lines: []types.Line{
			remove("second line, now rewritten"),
			add("second line of the file"),
		}}},
	}

	out := Apply(forward, content)
	require.Equal(t, types.StatusFull, out.Status)
	back := Apply(inverse, *out.NewContent)
	require.Equal(t, types.StatusFull, back.Status)
	assert.Equal(t, content, *back.NewContent)
}
