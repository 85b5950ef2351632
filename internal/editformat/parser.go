// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package editformat parses LLM response text into edit instructions, one
// parser per supported edit format.
// Implements: prd002-edit-formats R1, R4, R5;
//
//	docs/ARCHITECTURE § Format Parsers.
//
// The upstream producer is a language model and is known to be unreliable,
// so every parser is best-effort: locally odd input is skipped or recorded
// as a ParseError, and only structurally unrecoverable responses (no edits
// at all) fail the parse.
package editformat

import (
	"fmt"
	"strings"

	"github.com/petar-djukic/go-patch/pkg/types"
)

// ParseError describes a malformed edit block in the LLM response.
//
// Implements: prd002-edit-formats R4.1-R4.3.
type ParseError struct {
	Position int    // Line number where the block starts (1-based)
	RawText  string // The raw text of the malformed block
	Message  string // What went wrong
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %s", e.Position, e.Message)
}

// NoEditsFoundError is returned when the response contains no edit blocks
// for the requested format.
//
// Implements: prd002-edit-formats R4.4.
type NoEditsFoundError struct {
	Format types.EditFormat
}

func (e *NoEditsFoundError) Error() string {
	return fmt.Sprintf("no %s edit blocks found in response", e.Format)
}

// ParseResult holds the outcome of parsing an LLM response.
//
// Implements: prd002-edit-formats R5.1-R5.3.
type ParseResult struct {
	Instructions  []types.EditInstruction // Successfully parsed instructions, in response order
	ParseErrors   []*ParseError           // Errors from malformed blocks
	ReasoningText string                  // Non-edit text from the response
	BlocksFound   int                     // Total blocks attempted
	BlocksParsed  int                     // Blocks that produced valid instructions
}

// Parse dispatches to the parser for the given format.
//
// Implements: prd002-edit-formats R1.1.
func Parse(format types.EditFormat, response string) (*ParseResult, error) {
	switch format {
	case types.FormatWholeFile:
		return parseWholeFile(response)
	case types.FormatSearchReplace:
		return parseSearchReplace(response)
	case types.FormatUnifiedDiff:
		return parseUnifiedDiff(response)
	}
	return nil, fmt.Errorf("unknown edit format %d", format)
}

// splitResponse splits a response into lines, dropping the empty trailing
// element a final newline would otherwise produce.
func splitResponse(response string) []string {
	response = strings.TrimSuffix(response, "\n")
	if response == "" {
		return nil
	}
	return strings.Split(response, "\n")
}

// extractFilePath cleans a candidate file path line, stripping markdown
// fences, backticks, bold markers, list/heading decoration, and whitespace.
// Returns "" when the line cannot be a file path.
func extractFilePath(line string) string {
	s := strings.TrimSpace(line)

	if s == "" || s == "..." || isMarkdownFence(s) {
		return ""
	}

	s = strings.TrimPrefix(s, "#")
	s = strings.TrimSuffix(s, ":")
	s = strings.Trim(s, "`")
	s = strings.Trim(s, "*")
	s = strings.TrimSpace(s)

	// A line with interior spaces is reasoning text, not a path, unless it
	// at least looks path-shaped.
	if strings.ContainsAny(s, " \t") && !strings.Contains(s, "/") {
		return ""
	}

	return s
}

// findPathBefore searches up to three lines above idx for a file path,
// stopping at the first non-fence, non-blank line. Models sometimes wrap
// the filename in its own fenced line, so fences are skipped.
func findPathBefore(lines []string, idx int) string {
	for back := 1; back <= 3; back++ {
		j := idx - back
		if j < 0 {
			return ""
		}
		line := strings.TrimSpace(lines[j])
		if line == "" || isMarkdownFence(line) {
			continue
		}
		return extractFilePath(line)
	}
	return ""
}

// isMarkdownFence checks if a line is a markdown fence (``` with optional
// language tag).
func isMarkdownFence(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// reconstructBlock joins lines from start to end for error reporting.
func reconstructBlock(lines []string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(lines) {
		end = len(lines)
	}
	return strings.Join(lines[start:end], "\n")
}

// appendReasoning adds a line to the reasoning text builder.
func appendReasoning(b *strings.Builder, line string) {
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	b.WriteString(line)
}

// normalizeLine reduces pure-whitespace line text to the empty string, so
// that a line of stray spaces never blocks a match.
func normalizeLine(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}
