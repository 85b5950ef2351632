// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Implements: prd003-fuzzy-matcher R4 (failure diagnostics).
package matcher

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// ClosestMatch finds the best partial match in content for a failed search,
// for diagnostics only; it never drives an application. Returns the closest
// region, its similarity, and its 1-based line range.
func ClosestMatch(content, search string) (closest string, sim float64, lineStart, lineEnd int) {
	if search == "" || content == "" {
		return "", 0, 0, 0
	}

	contentLines := strings.Split(content, "\n")
	searchLen := len(strings.Split(search, "\n"))
	if searchLen > len(contentLines) {
		searchLen = len(contentLines)
	}

	var bestSim float64
	bestStart := -1
	for i := 0; i+searchLen <= len(contentLines); i++ {
		candidate := strings.Join(contentLines[i:i+searchLen], "\n")
		s := Similarity(candidate, search)
		if s > bestSim {
			bestSim = s
			bestStart = i
		}
	}
	if bestStart < 0 {
		return "", 0, 0, 0
	}

	closest = strings.Join(contentLines[bestStart:bestStart+searchLen], "\n")
	return closest, bestSim, bestStart + 1, bestStart + searchLen
}

// Similarity computes the Levenshtein-based similarity ratio between two
// strings using the go-diff library, between 0.0 and 1.0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	distance := dmp.DiffLevenshtein(diffs)
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return 1.0 - float64(distance)/float64(maxLen)
}
