// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package patcher

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petar-djukic/go-patch/internal/editformat"
	"github.com/petar-djukic/go-patch/pkg/types"
)

func TestProcess_SearchReplace(t *testing.T) {
	response := `main.py
<<<<<<< SEARCH
print("hello world")
=======
print("goodbye world")
>>>>>>> REPLACE
`
	snapshots := map[string]string{
		"main.py": "print(\"hello world\")\n",
	}

	outcomes, err := Process(types.FormatSearchReplace, response, snapshots)
	require.NoError(t, err)
	require.Len(t, outcomes, 1)

	out := outcomes["main.py"]
	require.NotNil(t, out)
	assert.Equal(t, types.StatusFull, out.Status)
	require.NotNil(t, out.NewContent)
	assert.Equal(t, "print(\"goodbye world\")\n", *out.NewContent)

	// Snapshots belong to the caller and are never mutated.
	assert.Equal(t, "print(\"hello world\")\n", snapshots["main.py"])
}

func TestProcess_WholeFileCreatesMissingFile(t *testing.T) {
	response := "config.py\n```python\nx = 1\n```\n"

	outcomes, err := Process(types.FormatWholeFile, response, map[string]string{})
	require.NoError(t, err)

	out := outcomes["config.py"]
	require.NotNil(t, out)
	assert.Equal(t, types.StatusFull, out.Status)
	require.NotNil(t, out.NewContent)
	assert.Equal(t, "x = 1\n", *out.NewContent)
}

func TestProcess_MissingSnapshotFailsForDiffFormats(t *testing.T) {
	response := `ghost.py
<<<<<<< SEARCH
anything at all really
=======
anything else
>>>>>>> REPLACE
`

	outcomes, err := Process(types.FormatSearchReplace, response, map[string]string{})
	require.NoError(t, err)

	out := outcomes["ghost.py"]
	require.NotNil(t, out)
	assert.Equal(t, types.StatusFailed, out.Status)
	assert.Nil(t, out.NewContent)
	assert.Contains(t, out.Message, "ghost.py is not in the provided snapshots")
	assert.Contains(t, out.Message, "only the whole-file format can create files")
}

func TestProcess_NoEditsIsSessionError(t *testing.T) {
	_, err := Process(types.FormatSearchReplace, "I cannot make that change, sorry.\n", nil)
	require.Error(t, err)

	var notFound *editformat.NoEditsFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestProcess_OnlyMalformedBlocksIsSessionError(t *testing.T) {
	response := `main.py
<<<<<<< SEARCH
search text with no divider
`

	_, err := Process(types.FormatSearchReplace, response, map[string]string{"main.py": "x\n"})
	require.Error(t, err)

	var parseErr *editformat.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestProcess_SamePathBlocksApplySequentially(t *testing.T) {
	// The second block's search text only exists once the first applied.
	response := `math.py
<<<<<<< SEARCH
def factorial(n):
=======
def factorial(number):
>>>>>>> REPLACE

math.py
<<<<<<< SEARCH
def factorial(number):
    """Return n factorial."""
=======
def factorial(number):
    """Return number factorial."""
>>>>>>> REPLACE
`
	snapshots := map[string]string{
		"math.py": "def factorial(n):\n    \"\"\"Return n factorial.\"\"\"\n    return n\n",
	}

	outcomes, err := Process(types.FormatSearchReplace, response, snapshots)
	require.NoError(t, err)

	out := outcomes["math.py"]
	require.NotNil(t, out)
	assert.Equal(t, types.StatusFull, out.Status)
	assert.Equal(t, 2, out.AppliedHunks)
	require.NotNil(t, out.NewContent)
	assert.Equal(t,
		"def factorial(number):\n    \"\"\"Return number factorial.\"\"\"\n    return n\n",
		*out.NewContent)
}

func TestProcess_ManyFilesConcurrently(t *testing.T) {
	snapshots := make(map[string]string)
	var response string
	for i := 0; i < 8; i++ {
		path := fmt.Sprintf("file%d.txt", i)
		snapshots[path] = fmt.Sprintf("original content of file %d\n", i)
		response += fmt.Sprintf(
			"%s\n<<<<<<< SEARCH\noriginal content of file %d\n=======\nupdated content of file %d\n>>>>>>> REPLACE\n\n",
			path, i, i)
	}

	session := New(Config{Workers: 2})
	outcomes, err := session.Process(types.FormatSearchReplace, response, snapshots)
	require.NoError(t, err)
	require.Len(t, outcomes, 8)

	for i := 0; i < 8; i++ {
		path := fmt.Sprintf("file%d.txt", i)
		out := outcomes[path]
		require.NotNil(t, out, path)
		assert.Equal(t, types.StatusFull, out.Status, path)
		assert.Equal(t, fmt.Sprintf("updated content of file %d\n", i), *out.NewContent)
	}
}

func TestProcess_FailureInOneFileDoesNotAffectOthers(t *testing.T) {
	response := `good.txt
<<<<<<< SEARCH
text that is really there
=======
text that was replaced
>>>>>>> REPLACE

bad.txt
<<<<<<< SEARCH
text that is not in the file
=======
never applied
>>>>>>> REPLACE
`
	snapshots := map[string]string{
		"good.txt": "text that is really there\n",
		"bad.txt":  "completely different contents\n",
	}

	outcomes, err := Process(types.FormatSearchReplace, response, snapshots)
	require.NoError(t, err)
	assert.Equal(t, types.StatusFull, outcomes["good.txt"].Status)
	assert.Equal(t, types.StatusFailed, outcomes["bad.txt"].Status)
}

func TestTargetPaths(t *testing.T) {
	response := `b.py
<<<<<<< SEARCH
bravo line one
=======
bravo line two
>>>>>>> REPLACE

a.py
<<<<<<< SEARCH
alpha line one
=======
alpha line two
>>>>>>> REPLACE

b.py
<<<<<<< SEARCH
bravo line three
=======
bravo line four
>>>>>>> REPLACE
`

	paths, err := TargetPaths(types.FormatSearchReplace, response)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.py", "a.py"}, paths)
}

func TestGroupByPath_LaterReplaceSupersedes(t *testing.T) {
	instructions := []types.EditInstruction{
		{FilePath: "f.txt", Hunks: []types.Hunk{{Lines: []types.Line{
			{Kind: types.Remove, Text: "old"}, {Kind: types.Add, Text: "new"},
		}}}},
		{FilePath: "f.txt", Replace: true, Hunks: []types.Hunk{{Lines: []types.Line{
			{Kind: types.Add, Text: "entire new file"},
		}}}},
	}

	order, grouped := groupByPath(instructions)
	require.Equal(t, []string{"f.txt"}, order)
	g := grouped["f.txt"]
	assert.True(t, g.Replace)
	require.Len(t, g.Hunks, 1)
	assert.Equal(t, "entire new file\n", g.Hunks[0].AfterText())
}
