// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-edit-formats R2 (search/replace blocks);
//
//	docs/ARCHITECTURE § Format Parsers.
package editformat

import (
	"github.com/petar-djukic/go-patch/pkg/types"
)

// Marker lines tolerate between 5 and 9 repeated marker characters, because
// models frequently miscount them.
const (
	minMarkerRun = 5
	maxMarkerRun = 9
)

// parseSearchReplace extracts SEARCH/REPLACE blocks. Each block becomes one
// EditInstruction holding a single hunk: the search section's lines as
// Remove, the replace section's lines as Add. This format produces no
// Context lines. A block with no detectable filename reuses the previous
// block's filename.
//
// Implements: prd002-edit-formats R2.1-R2.7.
func parseSearchReplace(response string) (*ParseResult, error) {
	result := &ParseResult{}
	lines := splitResponse(response)
	lastPath := ""
	i := 0

	for i < len(lines) {
		// Look for the next SEARCH marker.
		searchIdx := -1
		for j := i; j < len(lines); j++ {
			if isSearchMarker(lines[j]) {
				searchIdx = j
				break
			}
		}
		if searchIdx < 0 {
			break
		}

		// The filename sits on a line shortly before the SEARCH marker.
		filePath := findPathBefore(lines, searchIdx)
		if filePath == "" {
			filePath = lastPath
		}

		i = searchIdx + 1
		result.BlocksFound++

		// Collect search lines until the ======= divider.
		var searchLines []string
		foundDivider := false
		for i < len(lines) {
			if isDividerMarker(lines[i]) {
				foundDivider = true
				i++
				break
			}
			searchLines = append(searchLines, lines[i])
			i++
		}
		if !foundDivider {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: searchIdx + 1,
				RawText:  reconstructBlock(lines, searchIdx, i),
				Message:  "unclosed block: missing ======= divider",
			})
			continue
		}

		// Collect replace lines until the >>>>>>> REPLACE marker.
		var replaceLines []string
		foundReplace := false
		for i < len(lines) {
			if isReplaceMarker(lines[i]) {
				foundReplace = true
				i++
				break
			}
			replaceLines = append(replaceLines, lines[i])
			i++
		}
		if !foundReplace {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: searchIdx + 1,
				RawText:  reconstructBlock(lines, searchIdx, i),
				Message:  "unclosed block: missing >>>>>>> REPLACE marker",
			})
			continue
		}

		if filePath == "" {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: searchIdx + 1,
				RawText:  reconstructBlock(lines, searchIdx, i),
				Message:  "missing file path before <<<<<<< SEARCH marker",
			})
			continue
		}
		lastPath = filePath

		hunk := searchReplaceHunk(searchLines, replaceLines)
		if !hunk.HasChange() {
			continue
		}

		result.Instructions = append(result.Instructions, types.EditInstruction{
			FilePath: filePath,
			Hunks:    []types.Hunk{hunk},
		})
		result.BlocksParsed++
	}

	if result.BlocksFound == 0 {
		return nil, &NoEditsFoundError{Format: types.FormatSearchReplace}
	}
	return result, nil
}

// searchReplaceHunk builds a hunk from the two disjoint block sections.
// An empty search section yields a pure-addition hunk, which the applier
// appends (or which creates the file for a path absent from the snapshots
// under the whole-file policy decided by the session).
func searchReplaceHunk(searchLines, replaceLines []string) types.Hunk {
	h := types.Hunk{Lines: make([]types.Line, 0, len(searchLines)+len(replaceLines))}
	for _, s := range searchLines {
		h.Lines = append(h.Lines, types.Line{Kind: types.Remove, Text: s})
	}
	for _, r := range replaceLines {
		h.Lines = append(h.Lines, types.Line{Kind: types.Add, Text: r})
	}
	return h
}

func isSearchMarker(line string) bool {
	return isMarkerLine(line, '<', " SEARCH")
}

func isReplaceMarker(line string) bool {
	return isMarkerLine(line, '>', " REPLACE")
}

func isDividerMarker(line string) bool {
	t := trimMarker(line)
	n := runLen(t, '=')
	return n >= minMarkerRun && n <= maxMarkerRun && n == len(t)
}

func isMarkerLine(line string, ch byte, suffix string) bool {
	t := trimMarker(line)
	n := runLen(t, ch)
	return n >= minMarkerRun && n <= maxMarkerRun && t[n:] == suffix
}

func trimMarker(line string) string {
	// Leading/trailing whitespace around markers is tolerated.
	start, end := 0, len(line)
	for start < end && (line[start] == ' ' || line[start] == '\t') {
		start++
	}
	for end > start && (line[end-1] == ' ' || line[end-1] == '\t') {
		end--
	}
	return line[start:end]
}

func runLen(s string, ch byte) int {
	n := 0
	for n < len(s) && s[n] == ch {
		n++
	}
	return n
}
