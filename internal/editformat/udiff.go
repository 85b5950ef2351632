// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd002-edit-formats R4 (unified-diff-like hunks);
//
//	docs/ARCHITECTURE § Format Parsers.
package editformat

import (
	"strings"

	"github.com/petar-djukic/go-patch/pkg/types"
)

// parseUnifiedDiff extracts unified-diff-style hunks. `--- old` / `+++ new`
// pairs set the current file path; `@@` lines open a new hunk, and the
// numeric ranges inside them are discarded unread. Body lines map ` `, `-`,
// `+` to Context, Remove, Add. A line with no recognized prefix terminates
// the current hunk instead of failing the parse, so a partially-malformed
// response still yields its well-formed hunks.
//
// Duplicate (path, hunk) pairs are dropped, as are hunks with no change
// lines.
//
// Implements: prd002-edit-formats R4.1-R4.7.
func parseUnifiedDiff(response string) (*ParseResult, error) {
	result := &ParseResult{}
	lines := splitResponse(response)
	seen := make(map[string]bool)

	var cur []types.Line
	keeper := false // current hunk has at least one +/- line
	path := ""
	blockStart := 0

	flush := func(end int) {
		body := cur
		hadChange := keeper
		cur = nil
		keeper = false

		if len(body) == 0 || !hadChange {
			return
		}
		result.BlocksFound++

		if path == "" {
			result.ParseErrors = append(result.ParseErrors, &ParseError{
				Position: blockStart + 1,
				RawText:  reconstructBlock(lines, blockStart, end),
				Message:  "no file path found for hunk",
			})
			return
		}

		h := cleanupHunk(types.Hunk{Lines: body})
		if !h.HasChange() {
			return
		}

		key := path + "\x00" + h.Key()
		if seen[key] {
			return
		}
		seen[key] = true

		result.Instructions = append(result.Instructions, types.EditInstruction{
			FilePath: path,
			Hunks:    []types.Hunk{h},
		})
		result.BlocksParsed++
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ "):
			flush(i)
			path = diffHeaderPath(lines[i+1][4:], line[4:])
			i++
			blockStart = i + 1
		case strings.HasPrefix(line, "@@"):
			flush(i)
			blockStart = i + 1
		case isMarkdownFence(line):
			flush(i)
			blockStart = i + 1
		case line == "":
			cur = append(cur, types.Line{Kind: types.Context, Text: ""})
		case line[0] == ' ':
			cur = append(cur, types.Line{Kind: types.Context, Text: line[1:]})
		case line[0] == '-':
			cur = append(cur, types.Line{Kind: types.Remove, Text: line[1:]})
			keeper = true
		case line[0] == '+':
			cur = append(cur, types.Line{Kind: types.Add, Text: line[1:]})
			keeper = true
		default:
			flush(i)
			blockStart = i + 1
		}
	}
	flush(len(lines))

	if result.BlocksFound == 0 {
		return nil, &NoEditsFoundError{Format: types.FormatUnifiedDiff}
	}
	return result, nil
}

// diffHeaderPath picks the file path from a `--- old` / `+++ new` header
// pair, preferring the new side, and strips the conventional a/ b/
// prefixes.
func diffHeaderPath(newSide, oldSide string) string {
	p := strings.TrimSpace(newSide)
	if p == "/dev/null" || p == "" {
		p = strings.TrimSpace(oldSide)
	}
	if p == "/dev/null" {
		return ""
	}
	p = strings.Trim(p, "\"")
	if strings.HasPrefix(p, "a/") || strings.HasPrefix(p, "b/") {
		p = p[2:]
	}
	return p
}

// cleanupHunk normalizes pure-whitespace lines to empty and trims leading
// and trailing blank context lines, which models pad hunks with.
func cleanupHunk(h types.Hunk) types.Hunk {
	out := types.Hunk{Lines: make([]types.Line, 0, len(h.Lines))}
	for _, l := range h.Lines {
		l.Text = normalizeLine(l.Text)
		out.Lines = append(out.Lines, l)
	}

	isBlankContext := func(l types.Line) bool {
		return l.Kind == types.Context && l.Text == ""
	}
	for len(out.Lines) > 0 && isBlankContext(out.Lines[0]) {
		out.Lines = out.Lines[1:]
	}
	for len(out.Lines) > 0 && isBlankContext(out.Lines[len(out.Lines)-1]) {
		out.Lines = out.Lines[:len(out.Lines)-1]
	}
	return out
}
