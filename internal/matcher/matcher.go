// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package matcher locates where a hunk applies in a file even when the
// hunk's lines are not a byte-exact substring of the file.
// Implements: prd003-fuzzy-matcher R1, R2, R3;
//
//	docs/ARCHITECTURE § Fuzzy Matcher.
//
// Strategies form a cascade, most conservative first, and the first success
// wins. The cascade never optimizes across strategies; a conservative match
// is always preferred over a better-scoring permissive one.
package matcher

import (
	"strings"

	"github.com/petar-djukic/go-patch/pkg/types"
)

// Strategy identifies which cascade stage produced a match.
type Strategy string

const (
	StrategyExact     Strategy = "exact"     // Contiguous match, trailing whitespace ignored
	StrategyIndent    Strategy = "indent"    // Match modulo a uniform leading-whitespace offset
	StrategyRecovered Strategy = "recovered" // Match after dropped-line recovery
	StrategySplit     Strategy = "split"     // Hunk split into independent single-change sections
	StrategyWindow    Strategy = "window"    // Match with a shrunken context window
)

// minAnchorLen is the minimum number of non-whitespace characters a search
// anchor must have before a repeated match is trusted. Below this, multiple
// occurrences mean the anchor is too weak to disambiguate and the match is
// rejected.
const minAnchorLen = 10

// Candidate is a located region: a half-open line range in the target file,
// the strategy that found it, the lines it matched, and the lines to splice
// in. It exists only for the duration of one hunk's application.
type Candidate struct {
	Start, End  int // Half-open line range [Start, End) in the file
	Strategy    Strategy
	Matched     []string // File lines the hunk matched
	Replacement []string // Lines that replace Matched
}

// fileText is a file decomposed into newline-free lines plus whether the
// original content ended with a newline, so splices round-trip exactly.
type fileText struct {
	lines        []string
	finalNewline bool
}

func splitContent(content string) fileText {
	if content == "" {
		return fileText{finalNewline: true}
	}
	fn := strings.HasSuffix(content, "\n")
	if fn {
		content = content[:len(content)-1]
	}
	return fileText{lines: strings.Split(content, "\n"), finalNewline: fn}
}

func (f fileText) join() string {
	if len(f.lines) == 0 {
		return ""
	}
	s := strings.Join(f.lines, "\n")
	if f.finalNewline {
		s += "\n"
	}
	return s
}

// Locate finds where h applies in content using the positional strategies
// only: exact, spurious-leading-blank, and uniform-indent. It returns nil
// when none succeed; Apply continues the cascade from there.
//
// Implements: prd003-fuzzy-matcher R1.1-R1.4.
func Locate(h types.Hunk, content string) *Candidate {
	before, after := h.Before(), h.After()
	if len(before) == 0 {
		return nil
	}
	f := splitContent(content)

	if c := exactLocate(f.lines, before, after); c != nil {
		return c
	}

	// Models sometimes prepend a spurious blank line to the search text.
	if len(before) > 2 && strings.TrimSpace(before[0]) == "" {
		if c := exactLocate(f.lines, before[1:], after); c != nil {
			return c
		}
	}

	return indentLocate(f.lines, before, after)
}

// Splice replaces the candidate's line range with its replacement lines and
// returns the updated file content.
//
// Implements: prd004-patch-applier R2.1.
func Splice(content string, c *Candidate) string {
	f := splitContent(content)
	out := make([]string, 0, len(f.lines)-(c.End-c.Start)+len(c.Replacement))
	out = append(out, f.lines[:c.Start]...)
	out = append(out, c.Replacement...)
	out = append(out, f.lines[c.End:]...)
	return fileText{lines: out, finalNewline: f.finalNewline}.join()
}

// Apply runs the full cascade for one hunk and returns the updated content,
// the strategy that succeeded, and whether any did. The cascade order is:
// exact (with the indent variants), dropped-line recovery, then splitting
// the hunk into single-change sections applied with a progressively
// shrinking context window. Each stage is strictly more permissive than the
// previous one.
//
// Implements: prd003-fuzzy-matcher R2.1-R2.5.
func Apply(h types.Hunk, content string) (string, Strategy, bool) {
	if c := Locate(h, content); c != nil {
		return Splice(content, c), c.Strategy, true
	}

	work := h
	if rh, ok := recoverHunk(content, h); ok {
		work = rh
		f := splitContent(content)
		if c := exactLocate(f.lines, work.Before(), work.After()); c != nil {
			c.Strategy = StrategyRecovered
			return Splice(content, c), StrategyRecovered, true
		}
	}

	return applySections(work, content)
}

// applySections splits the hunk into independent single-change sections and
// applies each with a shrinking context window. All sections must land for
// the hunk to count as applied; a partial landing is discarded.
//
// Implements: prd003-fuzzy-matcher R2.3, R2.4.
func applySections(h types.Hunk, content string) (string, Strategy, bool) {
	secs := splitSections(h)
	if len(secs) == 0 {
		return content, "", false
	}

	cur := content
	for _, s := range secs {
		next, ok := applySection(cur, s)
		if !ok {
			return content, "", false
		}
		cur = next
	}

	if len(secs) > 1 {
		return cur, StrategySplit, true
	}
	return cur, StrategyWindow, true
}

// section is one contiguous run of change lines with its surrounding
// context runs.
type section struct {
	prec    []types.Line // context lines preceding the change
	changes []types.Line // the contiguous Remove/Add run
	foll    []types.Line // context lines following the change
}

// splitSections decomposes a hunk into sections, one per contiguous run of
// change lines. Smaller sections are less likely to have been
// mis-transcribed in full, so they match where the whole hunk cannot.
func splitSections(h types.Hunk) []section {
	var runs [][]types.Line
	var cur []types.Line
	curCtx := true
	for _, l := range h.Lines {
		isCtx := l.Kind == types.Context
		if len(cur) > 0 && isCtx != curCtx {
			runs = append(runs, cur)
			cur = nil
		}
		cur = append(cur, l)
		curCtx = isCtx
	}
	if len(cur) > 0 {
		runs = append(runs, cur)
	}
	if len(runs) == 0 {
		return nil
	}

	// Pad so runs alternate context, change, context, ... starting and
	// ending with (possibly empty) context.
	if runs[0][0].Kind != types.Context {
		runs = append([][]types.Line{nil}, runs...)
	}
	if len(runs)%2 == 0 {
		runs = append(runs, nil)
	}

	secs := make([]section, 0, len(runs)/2)
	for i := 1; i < len(runs); i += 2 {
		secs = append(secs, section{prec: runs[i-1], changes: runs[i], foll: runs[i+1]})
	}
	return secs
}

// applySection tries the section at every context width, widest first: full
// leading and trailing context down to just the changed lines. A narrower
// anchor is more likely to find a real but imperfectly-quoted match, at the
// cost of ambiguity risk, which the tiny-anchor guard in exactLocate caps.
func applySection(content string, s section) (string, bool) {
	lenPrec, lenFoll := len(s.prec), len(s.foll)
	useAll := lenPrec + lenFoll

	for drop := 0; drop <= useAll; drop++ {
		use := useAll - drop
		for usePrec := min(lenPrec, use); usePrec >= 0; usePrec-- {
			useFoll := use - usePrec
			if useFoll > lenFoll {
				continue
			}

			sub := types.Hunk{}
			sub.Lines = append(sub.Lines, s.prec[lenPrec-usePrec:]...)
			sub.Lines = append(sub.Lines, s.changes...)
			sub.Lines = append(sub.Lines, s.foll[:useFoll]...)

			before, after := sub.Before(), sub.After()
			if len(before) == 0 {
				continue
			}
			f := splitContent(content)
			if c := exactLocate(f.lines, before, after); c != nil {
				return Splice(content, c), true
			}
		}
	}
	return content, false
}
