// Package analysis turns extracted profile strings into frequency tables
// and heuristic performance verdicts. Everything here is stateless.
package analysis

import (
	"sort"
)

type Entry struct {
	Text  string
	Count int
}

// Counter counts occurrences of equal strings.
type Counter map[string]int

func Count(texts []string) Counter {
	c := make(Counter, len(texts))
	for _, s := range texts {
		c[s]++
	}
	return c
}

func (c Counter) Add(s string) { c[s]++ }

// Total is the sum of all counts.
func (c Counter) Total() int {
	var n int
	for _, v := range c {
		n += v
	}
	return n
}

// Top returns the n most frequent entries, ordered by count then text.
// A non-positive n returns every entry.
func (c Counter) Top(n int) []Entry {
	entries := make([]Entry, 0, len(c))
	for k, v := range c {
		entries = append(entries, Entry{Text: k, Count: v})
	}
	sortEntries(entries)
	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Text < entries[j].Text
	})
}
