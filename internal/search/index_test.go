package search

import "testing"

func buildIndex(docs map[uint]string) *Index {
	ix := New()
	entries := make([]Entry, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for id, text := range docs {
		entries = append(entries, Entry{ID: id, Title: text})
		texts = append(texts, text)
	}
	ix.Replace(entries, texts)
	return ix
}

func TestSearch_RanksPhraseHitsFirst(t *testing.T) {
	ix := buildIndex(map[uint]string{
		1: "Introduction to Go Programming",
		2: "Advanced Go Patterns and Programming Idioms",
		3: "Cooking for Programmers",
	})

	hits := ix.Search("go programming", 10)
	if len(hits) < 2 {
		t.Fatalf("expected at least two hits, got %v", hits)
	}
	// Entry 1 contains the exact phrase and gets the substring bonus.
	if hits[0].ID != 1 {
		t.Fatalf("phrase match should rank first: %+v", hits)
	}
	for _, h := range hits {
		if h.ID == 3 {
			t.Fatalf("unrelated document should not match: %+v", hits)
		}
	}
}

func TestSearch_EmptyAndUnmatchableQueries(t *testing.T) {
	ix := buildIndex(map[uint]string{1: "Some Document"})

	if hits := ix.Search("", 10); hits != nil {
		t.Fatalf("empty query: %v", hits)
	}
	if hits := ix.Search("   !!! ", 10); hits != nil {
		t.Fatalf("punctuation-only query: %v", hits)
	}
	if hits := ix.Search("zzz qqq", 10); len(hits) != 0 {
		t.Fatalf("unmatchable query: %v", hits)
	}
}

func TestSearch_LimitApplies(t *testing.T) {
	ix := buildIndex(map[uint]string{
		1: "report one",
		2: "report two",
		3: "report three",
	})

	hits := ix.Search("report", 2)
	if len(hits) != 2 {
		t.Fatalf("limit not applied: %v", hits)
	}
	if hits := ix.Search("report", 0); hits != nil {
		t.Fatalf("zero limit should yield nothing: %v", hits)
	}
}

func TestSearch_CaseInsensitive(t *testing.T) {
	ix := buildIndex(map[uint]string{1: "The RUST Book"})

	if hits := ix.Search("rust book", 10); len(hits) != 1 || hits[0].ID != 1 {
		t.Fatalf("case-insensitive match failed: %v", hits)
	}
}

func TestReplace_SwapsContents(t *testing.T) {
	ix := buildIndex(map[uint]string{1: "old entry"})
	if ix.Len() != 1 {
		t.Fatalf("len = %d", ix.Len())
	}

	ix.Replace([]Entry{{ID: 2, Title: "new entry"}}, []string{"new entry"})
	if ix.Len() != 1 {
		t.Fatalf("len after swap = %d", ix.Len())
	}
	if hits := ix.Search("old entry", 10); len(hits) != 0 {
		t.Fatalf("old contents should be gone: %v", hits)
	}
	if hits := ix.Search("new entry", 10); len(hits) != 1 || hits[0].ID != 2 {
		t.Fatalf("new contents should match: %v", hits)
	}
}

func TestJaccard(t *testing.T) {
	a := tokenize("go programming patterns")
	b := tokenize("go programming")
	if got := jaccard(a, b); got <= 0.5 || got >= 1 {
		t.Fatalf("jaccard = %v, want 2/3", got)
	}
	if got := jaccard(a, tokenize("")); got != 0 {
		t.Fatalf("empty set jaccard = %v", got)
	}
}
