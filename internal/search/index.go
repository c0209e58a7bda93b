// Package search implements a small in-memory fuzzy index over document
// titles and descriptions. It tokenizes text into lowercased word sets and
// ranks candidates by Jaccard similarity against the query, with a substring
// bonus so exact phrases surface first. The index is rebuilt from the
// database after writes; at this service's scale a full rebuild is cheap.
package search

import (
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Entry is one indexed document.
type Entry struct {
	ID    uint
	Title string

	tokens map[string]struct{}
	lower  string
}

// Hit is a scored match.
type Hit struct {
	ID    uint
	Title string
	Score float64
}

// Index is safe for concurrent use: lookups take a read lock, Replace swaps
// the whole entry set under a write lock.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
}

// New returns an empty index.
func New() *Index { return &Index{} }

// Replace atomically swaps the index contents. texts[i] is the searchable
// text for entries[i] (title plus description).
func (ix *Index) Replace(entries []Entry, texts []string) {
	for i := range entries {
		entries[i].lower = strings.ToLower(texts[i])
		entries[i].tokens = tokenize(texts[i])
	}
	ix.mu.Lock()
	ix.entries = entries
	ix.mu.Unlock()
}

// Len returns the number of indexed documents.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// minScore filters out noise matches that share only a stray token.
const minScore = 0.1

// Search returns up to limit hits for the query, best first. An empty or
// unmatchable query yields no hits.
func (ix *Index) Search(query string, limit int) []Hit {
	qTokens := tokenize(query)
	qLower := strings.ToLower(strings.TrimSpace(query))
	if len(qTokens) == 0 || limit <= 0 {
		return nil
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]Hit, 0, limit)
	for i := range ix.entries {
		e := &ix.entries[i]
		score := jaccard(qTokens, e.tokens)
		if strings.Contains(e.lower, qLower) {
			// Phrase hit: rank above pure token overlap.
			score += 1
		}
		if score < minScore {
			continue
		}
		hits = append(hits, Hit{ID: e.ID, Title: e.Title, Score: score})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

func tokenize(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len(f) > 1 {
			out[f] = struct{}{}
		}
	}
	return out
}

func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	inter := 0
	for t := range small {
		if _, ok := large[t]; ok {
			inter++
		}
	}
	if inter == 0 {
		return 0
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
