// Package project derives the view order of a word list: the ordered
// sequence of raw line positions currently visible, after applying a
// substring filter and an optional shuffle permutation recorded earlier.
//
// Everything here is pure. The same inputs always produce the same view
// order, which is what lets the controller re-derive the view after every
// state change instead of tracking incremental updates.
package project

import "strings"

// SplitLines splits a document's content into its non-blank lines.
// Line positions used throughout the engine are indices into this slice.
// CR/LF endings are tolerated; whitespace-only lines are dropped.
func SplitLines(content string) []string {
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// Project computes the view order over rawLines.
//
// The filter matches the whole raw line case-insensitively, separators and
// link/date fields included, so a search can match a URL. An empty (or
// blank) query means no filter.
//
// With no permutation the result is the filtered positions in natural
// ascending order. With a permutation, the result starts with the
// permutation's entries that are in range, pass the filter and have not been
// seen before; any remaining filtered positions follow in natural order.
// That suffix keeps lines appended after the shuffle was recorded reachable
// without re-shuffling, and silently drops permutation entries the current
// filter hides.
func Project(rawLines []string, searchQuery string, shuffleIndices []int) []int {
	query := strings.ToLower(strings.TrimSpace(searchQuery))

	filtered := make([]int, 0, len(rawLines))
	for i, line := range rawLines {
		if query == "" || strings.Contains(strings.ToLower(line), query) {
			filtered = append(filtered, i)
		}
	}

	if len(shuffleIndices) == 0 {
		return filtered
	}

	inFilter := make(map[int]bool, len(filtered))
	for _, i := range filtered {
		inFilter[i] = true
	}

	order := make([]int, 0, len(filtered))
	used := make(map[int]bool, len(filtered))
	for _, i := range shuffleIndices {
		if i < 0 || i >= len(rawLines) {
			continue
		}
		if !inFilter[i] || used[i] {
			continue
		}
		order = append(order, i)
		used[i] = true
	}
	for _, i := range filtered {
		if !used[i] {
			order = append(order, i)
		}
	}
	return order
}
