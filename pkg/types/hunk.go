// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package types holds the shared data model for the patch engine: hunks,
// edit instructions, and patch outcomes.
// Implements: prd001-patch-interface R1, R2;
//
//	docs/ARCHITECTURE § Data Model.
package types

import "strings"

// LineKind tags a single hunk line as context, removal, or addition.
type LineKind int

const (
	Context LineKind = iota // Line present before and after the edit
	Remove                  // Line present only before the edit
	Add                     // Line present only after the edit
)

func (k LineKind) String() string {
	switch k {
	case Context:
		return "context"
	case Remove:
		return "remove"
	case Add:
		return "add"
	default:
		return "unknown"
	}
}

// Line is one newline-normalized hunk line. Text never contains a trailing
// newline; reassembly joins lines with "\n".
type Line struct {
	Kind LineKind
	Text string
}

// Hunk is one atomic edit: an ordered sequence of context, removal, and
// addition lines. A hunk carries no position information. Where it applies
// is always derived by the matcher from the lines themselves, never trusted
// from the response, because model-produced line numbers are unreliable.
//
// Hunks are created by a format parser and are not modified afterward.
type Hunk struct {
	Lines []Line
}

// Before returns the lines the hunk expects to find in the file, in order:
// context and removal lines.
func (h Hunk) Before() []string {
	out := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Remove {
			out = append(out, l.Text)
		}
	}
	return out
}

// After returns the lines the hunk leaves in the file, in order: context and
// addition lines.
func (h Hunk) After() []string {
	out := make([]string, 0, len(h.Lines))
	for _, l := range h.Lines {
		if l.Kind == Context || l.Kind == Add {
			out = append(out, l.Text)
		}
	}
	return out
}

// BeforeText returns Before joined with newlines, with a trailing newline
// when non-empty.
func (h Hunk) BeforeText() string {
	return joinLines(h.Before())
}

// AfterText returns After joined with newlines, with a trailing newline
// when non-empty.
func (h Hunk) AfterText() string {
	return joinLines(h.After())
}

// HasChange reports whether the hunk contains at least one removal or
// addition line. Pure-context hunks are no-ops and parsers drop them.
func (h Hunk) HasChange() bool {
	for _, l := range h.Lines {
		if l.Kind != Context {
			return true
		}
	}
	return false
}

// IsAppend reports whether the hunk has no context or removal lines at all,
// meaning there is nothing to locate; the applier appends its additions to
// the end of the file.
func (h Hunk) IsAppend() bool {
	for _, l := range h.Lines {
		if l.Kind != Add {
			return false
		}
	}
	return len(h.Lines) > 0
}

// Key returns a stable identity for duplicate detection: the kind-prefixed
// lines joined together.
func (h Hunk) Key() string {
	var b strings.Builder
	for _, l := range h.Lines {
		switch l.Kind {
		case Remove:
			b.WriteByte('-')
		case Add:
			b.WriteByte('+')
		default:
			b.WriteByte(' ')
		}
		b.WriteString(l.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
