package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

func newServiceDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func mustSeedDocument(t *testing.T, db *gorm.DB, slug, hash string) *domain.Document {
	t.Helper()
	d := &domain.Document{
		Title:      "Doc " + slug,
		Slug:       slug,
		CategoryID: 1,
		FilePath:   "/tmp/" + slug + ".pdf",
		FileHash:   hash,
		IsPublic:   true,
	}
	if err := repo.CreateDocument(context.Background(), db, d); err != nil {
		t.Fatalf("seed document %s: %v", slug, err)
	}
	return d
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Intro to Go":           "intro-to-go",
		"  Hello,   World!  ":   "hello-world",
		"C++ In Depth (2nd Ed)": "c-in-depth-2nd-ed",
		"___":                   "untitled",
		"日本語のみ":                 "untitled",
		"Report 2024":           "report-2024",
		"-already-sluggy-":      "already-sluggy",
		// Non-ASCII digits are separators, not slug characters.
		"report ٣":     "report",
		"doc ３ final": "doc-final",
	}
	for in, want := range cases {
		if got := Slugify(in); got != want {
			t.Errorf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
	for in := range cases {
		for _, r := range Slugify(in) {
			if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
				t.Errorf("Slugify(%q) emitted %q outside [a-z0-9-]", in, r)
			}
		}
	}
}

func TestFingerprint(t *testing.T) {
	if got := Fingerprint([]byte("hello")); got != "5d41402abc4b2a76b9719d911017c592" {
		t.Fatalf("Fingerprint(hello) = %q", got)
	}
}

func TestFingerprintFile_MatchesInMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	data := []byte("some pdf bytes")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := FingerprintFile(path)
	if err != nil {
		t.Fatalf("FingerprintFile: %v", err)
	}
	if want := Fingerprint(data); got != want {
		t.Fatalf("digest mismatch: file=%q mem=%q", got, want)
	}
}

func TestSlugAllocator_BaseFree(t *testing.T) {
	db := newServiceDB(t, &domain.Document{}, &domain.SlugRedirect{})
	a := &SlugAllocator{DB: db}

	slug, err := a.Allocate(context.Background(), "Fresh Title")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if slug != "fresh-title" {
		t.Fatalf("slug = %q, want fresh-title", slug)
	}
}

func TestSlugAllocator_DisambiguatesTakenBase(t *testing.T) {
	db := newServiceDB(t, &domain.Document{}, &domain.SlugRedirect{})
	mustSeedDocument(t, db, "report", "h1")
	mustSeedDocument(t, db, "report-2", "h2")

	a := &SlugAllocator{DB: db}
	slug, err := a.Allocate(context.Background(), "Report")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if slug != "report-3" {
		t.Fatalf("slug = %q, want report-3", slug)
	}
}

func TestSlugAllocator_Exhausted(t *testing.T) {
	db := newServiceDB(t, &domain.Document{}, &domain.SlugRedirect{})
	mustSeedDocument(t, db, "x", "h1")
	mustSeedDocument(t, db, "x-2", "h2")
	mustSeedDocument(t, db, "x-3", "h3")

	a := &SlugAllocator{DB: db, MaxAttempts: 3}
	if _, err := a.Allocate(context.Background(), "X"); !errors.Is(err, ErrSlugExhausted) {
		t.Fatalf("expected ErrSlugExhausted, got %v", err)
	}
}

func TestSlugAllocator_UnexpiredRedirectBlocksReuse(t *testing.T) {
	db := newServiceDB(t, &domain.Document{}, &domain.SlugRedirect{})
	ctx := context.Background()

	until := time.Now().UTC().Add(time.Hour)
	if err := repo.CreateSlugRedirect(ctx, db, &domain.SlugRedirect{
		OldSlug: "held", NewSlug: "held-elsewhere", DocumentID: 1, RedirectUntil: &until,
	}); err != nil {
		t.Fatalf("seed redirect: %v", err)
	}

	a := &SlugAllocator{DB: db}
	slug, err := a.Allocate(ctx, "Held")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if slug != "held-2" {
		t.Fatalf("unexpired redirect should block base slug, got %q", slug)
	}
}

func TestSlugAllocator_ExpiredRedirectFreesSlug(t *testing.T) {
	db := newServiceDB(t, &domain.Document{}, &domain.SlugRedirect{})
	ctx := context.Background()

	past := time.Now().UTC().Add(-time.Hour)
	if err := repo.CreateSlugRedirect(ctx, db, &domain.SlugRedirect{
		OldSlug: "held", NewSlug: "held-elsewhere", DocumentID: 1, RedirectUntil: &past,
	}); err != nil {
		t.Fatalf("seed redirect: %v", err)
	}

	a := &SlugAllocator{DB: db}
	slug, err := a.Allocate(ctx, "Held")
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if slug != "held" {
		t.Fatalf("expired redirect should free the slug, got %q", slug)
	}
}

func TestSlugAllocator_Next(t *testing.T) {
	db := newServiceDB(t, &domain.Document{}, &domain.SlugRedirect{})
	a := &SlugAllocator{DB: db}

	// After losing "report-2" to a concurrent insert, Next advances to -3.
	slug, err := a.Next(context.Background(), "Report", "report-2")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if slug != "report-3" {
		t.Fatalf("Next after report-2 = %q, want report-3", slug)
	}

	// Losing the bare base starts at -2.
	slug, err = a.Next(context.Background(), "Report", "report")
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if slug != "report-2" {
		t.Fatalf("Next after base = %q, want report-2", slug)
	}
}

func TestSuffixOf(t *testing.T) {
	cases := []struct {
		slug, base string
		want       int
	}{
		{"report-2", "report", 2},
		{"report-13", "report", 13},
		{"report", "report", 0},
		{"report-two", "report", 0},
		{"other-2", "report", 0},
	}
	for _, c := range cases {
		if got := suffixOf(c.slug, c.base); got != c.want {
			t.Errorf("suffixOf(%q, %q) = %d, want %d", c.slug, c.base, got, c.want)
		}
	}
}
