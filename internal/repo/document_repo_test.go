package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Release the file handle before TempDir cleanup (Windows needs this).
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

func seedDocument(t *testing.T, db *gorm.DB, slug, hash string) *domain.Document {
	t.Helper()
	d := &domain.Document{
		Title:      "Doc " + slug,
		Slug:       slug,
		CategoryID: 1,
		FilePath:   "/tmp/" + slug + ".pdf",
		FileHash:   hash,
		IsPublic:   true,
	}
	if err := CreateDocument(context.Background(), db, d); err != nil {
		t.Fatalf("CreateDocument(%s): %v", slug, err)
	}
	return d
}

func TestCreateDocument_AssignsIDAndCreatedAt(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})

	d := seedDocument(t, db, "intro-to-go", "aaaa")
	if d.ID == 0 {
		t.Fatalf("expected store-assigned id, got 0")
	}
	if d.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt not set")
	}

	got, err := GetDocument(context.Background(), db, d.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Slug != "intro-to-go" {
		t.Fatalf("round-trip slug mismatch: %q", got.Slug)
	}
}

func TestCreateDocument_SlugUniqueViolation(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})
	seedDocument(t, db, "same-slug", "aaaa")

	d := &domain.Document{Title: "x", Slug: "same-slug", CategoryID: 1, FilePath: "/tmp/x", FileHash: "bbbb"}
	if err := CreateDocument(context.Background(), db, d); err == nil {
		t.Fatalf("expected unique violation on slug, got nil")
	}
}

func TestFindDocumentByHash(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})
	want := seedDocument(t, db, "a", "cafebabe")

	got, err := FindDocumentByHash(context.Background(), db, "cafebabe")
	if err != nil {
		t.Fatalf("FindDocumentByHash: %v", err)
	}
	if got.ID != want.ID {
		t.Fatalf("wrong document: got %d want %d", got.ID, want.ID)
	}

	if _, err := FindDocumentByHash(context.Background(), db, "missing"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for unknown hash, got %v", err)
	}
}

func TestSlugExists(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})
	seedDocument(t, db, "taken", "aaaa")

	for slug, want := range map[string]bool{"taken": true, "free": false} {
		got, err := SlugExists(context.Background(), db, slug)
		if err != nil {
			t.Fatalf("SlugExists(%s): %v", slug, err)
		}
		if got != want {
			t.Fatalf("SlugExists(%s) = %v, want %v", slug, got, want)
		}
	}
}

func TestUpdateDocument_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})
	err := UpdateDocument(context.Background(), db, 999, map[string]any{"title": "x"})
	if err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDocument_RemovesRow(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})
	d := seedDocument(t, db, "gone", "aaaa")

	if err := DeleteDocument(context.Background(), db, d.ID); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, err := GetDocument(context.Background(), db, d.ID); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := DeleteDocument(context.Background(), db, d.ID); err != ErrNotFound {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestIncrementViews_Atomic(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})
	d := seedDocument(t, db, "counted", "aaaa")

	for i := 0; i < 3; i++ {
		if err := IncrementViews(context.Background(), db, d.ID); err != nil {
			t.Fatalf("IncrementViews: %v", err)
		}
	}
	if err := IncrementDownloads(context.Background(), db, d.ID); err != nil {
		t.Fatalf("IncrementDownloads: %v", err)
	}

	got, err := GetDocument(context.Background(), db, d.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Views != 3 || got.Downloads != 1 {
		t.Fatalf("counters: views=%d downloads=%d, want 3/1", got.Views, got.Downloads)
	}
}

func TestListPopularDocuments_PublicOnlyAndOrdered(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})
	a := seedDocument(t, db, "a", "h1")
	b := seedDocument(t, db, "b", "h2")
	hidden := seedDocument(t, db, "c", "h3")

	db.Model(&domain.Document{}).Where("id = ?", a.ID).Update("views", 10)
	db.Model(&domain.Document{}).Where("id = ?", b.ID).Update("views", 5)
	db.Model(&domain.Document{}).Where("id = ?", hidden.ID).
		Updates(map[string]any{"views": 100, "is_public": false})

	got, err := ListPopularDocuments(context.Background(), db, 10)
	if err != nil {
		t.Fatalf("ListPopularDocuments: %v", err)
	}
	if len(got) != 2 || got[0].ID != a.ID || got[1].ID != b.ID {
		t.Fatalf("unexpected popular order: %+v", got)
	}
}

func TestDocumentStats(t *testing.T) {
	db := newRepoDB(t, &domain.Document{})

	count, maxTS, err := DocumentStats(context.Background(), db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty stats: count=%d maxTS=%v err=%v", count, maxTS, err)
	}

	seedDocument(t, db, "one", "h1")
	count, maxTS, err = DocumentStats(context.Background(), db)
	if err != nil {
		t.Fatalf("DocumentStats: %v", err)
	}
	if count != 1 || maxTS == nil {
		t.Fatalf("stats after insert: count=%d maxTS=%v", count, maxTS)
	}
}
