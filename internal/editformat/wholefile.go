// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-edit-formats R3 (whole-file replacement);
//
//	docs/ARCHITECTURE § Format Parsers.
package editformat

import (
	"strings"

	"github.com/petar-djukic/go-patch/pkg/types"
)

// parseWholeFile extracts filename-plus-fenced-block pairs. The entire
// fenced block is the new content of the named file, expressed as a single
// whole-file-replacement instruction. The prior file content is never
// quoted in this format; it is supplied at apply time from the snapshot,
// and a path absent from the snapshots is a file creation.
//
// Implements: prd002-edit-formats R3.1-R3.5.
func parseWholeFile(response string) (*ParseResult, error) {
	result := &ParseResult{}
	lines := splitResponse(response)
	var reasoning strings.Builder
	lastPath := ""
	i := 0

	for i < len(lines) {
		if !isMarkdownFence(lines[i]) {
			appendReasoning(&reasoning, lines[i])
			i++
			continue
		}

		fenceIdx := i
		filePath := findPathBefore(lines, fenceIdx)
		if filePath == "" {
			filePath = lastPath
		}

		// Collect the fenced content. An unclosed fence runs to the end of
		// the response; truncated streams should still yield the edit.
		i++
		var content []string
		for i < len(lines) && !isMarkdownFence(lines[i]) {
			content = append(content, lines[i])
			i++
		}
		if i < len(lines) {
			i++ // closing fence
		}

		result.BlocksFound++
		if filePath == "" {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: fenceIdx + 1,
				RawText:  reconstructBlock(lines, fenceIdx, i),
				Message:  "no filename found before fenced block",
			})
			continue
		}
		lastPath = filePath

		result.Instructions = append(result.Instructions, types.EditInstruction{
			FilePath: filePath,
			Hunks:    []types.Hunk{wholeFileHunk(content)},
			Replace:  true,
		})
		result.BlocksParsed++
	}

	result.ReasoningText = strings.TrimSpace(reasoning.String())

	if result.BlocksFound == 0 {
		return nil, &NoEditsFoundError{Format: types.FormatWholeFile}
	}
	return result, nil
}

// wholeFileHunk wraps the fenced block content as a pure-addition hunk.
// The removal side (the file's prior content) is implicit: whole-file
// instructions replace outright instead of locating a region.
func wholeFileHunk(content []string) types.Hunk {
	h := types.Hunk{Lines: make([]types.Line, 0, len(content))}
	for _, l := range content {
		h.Lines = append(h.Lines, types.Line{Kind: types.Add, Text: l})
	}
	return h
}
