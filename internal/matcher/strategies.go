// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-fuzzy-matcher R1 (exact/indent), R2.2 (dropped-line
//
//	recovery); docs/ARCHITECTURE § Fuzzy Matcher.
package matcher

import (
	"slices"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/petar-djukic/go-patch/pkg/types"
)

// exactLocate slides the before lines over the file, comparing line by line
// with trailing whitespace ignored. When the anchor occurs more than once,
// the occurrence closest to the end of the file wins: models typically
// reference the most recently discussed region. A repeated anchor with
// fewer than minAnchorLen non-whitespace characters is rejected outright,
// because the tie-break is only safe with a substantial anchor.
func exactLocate(fileLines, before, after []string) *Candidate {
	n := len(before)
	if n == 0 || n > len(fileLines) {
		return nil
	}

	var matches []int
	for i := 0; i+n <= len(fileLines); i++ {
		if windowEqual(fileLines[i:i+n], before) {
			matches = append(matches, i)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 && anchorWeight(before) < minAnchorLen {
		return nil
	}

	start := matches[len(matches)-1]
	return &Candidate{
		Start:       start,
		End:         start + n,
		Strategy:    StrategyExact,
		Matched:     slices.Clone(fileLines[start : start+n]),
		Replacement: slices.Clone(after),
	}
}

func windowEqual(window, before []string) bool {
	for i := range before {
		if strings.TrimRight(window[i], " \t") != strings.TrimRight(before[i], " \t") {
			return false
		}
	}
	return true
}

// anchorWeight counts non-whitespace characters across the anchor lines.
func anchorWeight(lines []string) int {
	n := 0
	for _, l := range lines {
		for _, r := range l {
			if r != ' ' && r != '\t' {
				n++
			}
		}
	}
	return n
}

// indentLocate handles the common model mistake of quoting a block with its
// leading whitespace uniformly wrong: either stripped entirely or offset by
// a fixed amount. The before and after lines are outdented by their shared
// leading whitespace, the file is searched for a window matching modulo one
// uniform prefix, and the replacement is re-indented with that prefix.
func indentLocate(fileLines, before, after []string) *Candidate {
	b, a := outdentCommon(before, after)
	n := len(b)
	if n == 0 || n > len(fileLines) {
		return nil
	}

	var matches []int
	var prefixes []string
	for i := 0; i+n <= len(fileLines); i++ {
		if p, ok := uniformPrefix(fileLines[i:i+n], b); ok {
			matches = append(matches, i)
			prefixes = append(prefixes, p)
		}
	}
	if len(matches) == 0 {
		return nil
	}
	if len(matches) > 1 && anchorWeight(b) < minAnchorLen {
		return nil
	}

	last := len(matches) - 1
	start := matches[last]
	return &Candidate{
		Start:       start,
		End:         start + n,
		Strategy:    StrategyIndent,
		Matched:     slices.Clone(fileLines[start : start+n]),
		Replacement: reindent(a, prefixes[last]),
	}
}

// uniformPrefix reports whether every non-blank window line equals the
// corresponding part line with one and the same leading-whitespace prefix
// added.
func uniformPrefix(window, part []string) (string, bool) {
	prefix := ""
	found := false
	for i := range part {
		pl, wl := part[i], window[i]
		if strings.TrimSpace(pl) == "" {
			if strings.TrimSpace(wl) != "" {
				return "", false
			}
			continue
		}
		if len(wl) < len(pl) || wl[len(wl)-len(pl):] != pl {
			return "", false
		}
		p := wl[:len(wl)-len(pl)]
		if strings.TrimSpace(p) != "" {
			return "", false
		}
		if found && p != prefix {
			return "", false
		}
		prefix, found = p, true
	}
	return prefix, found
}

// outdentCommon strips the largest leading-whitespace run shared by every
// non-blank line of both slices.
func outdentCommon(before, after []string) ([]string, []string) {
	common := -1
	for _, l := range append(slices.Clone(before), after...) {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if common < 0 || n < common {
			common = n
		}
	}
	if common <= 0 {
		return slices.Clone(before), slices.Clone(after)
	}

	strip := func(lines []string) []string {
		out := make([]string, len(lines))
		for i, l := range lines {
			if strings.TrimSpace(l) == "" {
				out[i] = l
				continue
			}
			out[i] = l[common:]
		}
		return out
	}
	return strip(before), strip(after)
}

func reindent(lines []string, prefix string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		if strings.TrimSpace(l) == "" {
			out[i] = l
			continue
		}
		out[i] = prefix + l
	}
	return out
}

// recoverHunk rebuilds a hunk whose quoted lines are not all present in the
// file. The before text is line-diffed against the file; lines the file
// does not contain were silently invented or dropped by the model, so the
// surviving lines become the new search anchor and the hunk is re-derived
// as a full-context diff from that anchor to the after text.
//
// The reconstruction is deterministic: diffmatchpatch produces one minimal
// line-level edit script. Degenerate reconstructions are rejected when the
// surviving anchor is under minAnchorLen non-whitespace characters or under
// two thirds of the original line count.
//
// Implements: prd003-fuzzy-matcher R2.2.
func recoverHunk(content string, h types.Hunk) (types.Hunk, bool) {
	before := h.Before()
	if len(before) == 0 || strings.TrimSpace(strings.Join(before, "")) == "" {
		return h, false
	}

	diffs := lineDiff(joinText(before), content)
	var kept []string
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			kept = append(kept, textLines(d.Text)...)
		}
	}

	if anchorWeight(kept) < minAnchorLen {
		return h, false
	}
	if len(kept)*3 < len(before)*2 {
		return h, false
	}
	if slices.Equal(kept, before) {
		return h, false
	}

	return diffHunk(kept, h.After()), true
}

// diffHunk derives a hunk as the full-context line diff between two line
// slices: equal lines become Context, deletions Remove, insertions Add.
func diffHunk(before, after []string) types.Hunk {
	diffs := lineDiff(joinText(before), joinText(after))
	h := types.Hunk{}
	for _, d := range diffs {
		kind := types.Context
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			kind = types.Remove
		case diffmatchpatch.DiffInsert:
			kind = types.Add
		}
		for _, l := range textLines(d.Text) {
			h.Lines = append(h.Lines, types.Line{Kind: kind, Text: l})
		}
	}
	return h
}

// lineDiff computes a line-level diff using the linesToChars encoding, so
// whole lines are the unit of comparison.
func lineDiff(a, b string) []diffmatchpatch.Diff {
	dmp := diffmatchpatch.New()
	c1, c2, arr := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffMain(c1, c2, false)
	return dmp.DiffCharsToLines(diffs, arr)
}

func textLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func joinText(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
