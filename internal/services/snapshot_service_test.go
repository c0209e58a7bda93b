package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

func snapshotTables() []any {
	return []any{
		&domain.User{}, &domain.Category{}, &domain.SeoSettings{}, &domain.SiteSettings{},
		&domain.Document{}, &domain.DmcaRequest{}, &domain.Rating{}, &domain.SlugRedirect{},
	}
}

func seedSnapshotFixture(t *testing.T, db *gorm.DB) {
	t.Helper()
	ctx := context.Background()

	if err := repo.CreateCategory(ctx, db, &domain.Category{Name: "Guides", Slug: "guides"}); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	doc := &domain.Document{
		Title: "Kept Doc", Slug: "kept-doc", CategoryID: 1,
		FilePath: "/data/kept.pdf", FileHash: "h1", IsPublic: true, Views: 7,
	}
	if err := repo.CreateDocument(ctx, db, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	if err := repo.CreateRating(ctx, db, &domain.Rating{DocumentID: doc.ID, Rater: "a", IsPositive: true}); err != nil {
		t.Fatalf("seed rating: %v", err)
	}
	if err := repo.CreateSlugRedirect(ctx, db, &domain.SlugRedirect{
		OldSlug: "old-doc", NewSlug: "kept-doc", DocumentID: doc.ID,
	}); err != nil {
		t.Fatalf("seed redirect: %v", err)
	}
	if err := repo.UpsertSeoSettings(ctx, db, &domain.SeoSettings{SiteTitle: "Lib"}); err != nil {
		t.Fatalf("seed seo: %v", err)
	}
}

func TestSnapshot_ExportImportRoundTrip(t *testing.T) {
	source := newServiceDB(t, snapshotTables()...)
	seedSnapshotFixture(t, source)

	var buf bytes.Buffer
	if err := (&SnapshotService{DB: source}).WriteExport(context.Background(), &buf); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}

	// Restore into a fresh store.
	target := newServiceDB(t, snapshotTables()...)
	counts, err := (&SnapshotService{DB: target}).Import(context.Background(), &buf)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if counts.Documents != 1 || counts.Categories != 1 || counts.Ratings != 1 ||
		counts.SlugRedirects != 1 || counts.SeoSettings != 1 {
		t.Fatalf("counts: %+v", counts)
	}

	ctx := context.Background()
	doc, err := repo.GetDocumentBySlug(ctx, target, "kept-doc")
	if err != nil {
		t.Fatalf("restored document: %v", err)
	}
	if doc.ID != 1 || doc.Views != 7 || doc.FileHash != "h1" {
		t.Fatalf("ids and counters must survive the round trip: %+v", doc)
	}
	if red, err := repo.GetRedirectByOldSlug(ctx, target, "old-doc"); err != nil || red.DocumentID != doc.ID {
		t.Fatalf("restored redirect: %+v err=%v", red, err)
	}
	if seo, err := repo.GetSeoSettings(ctx, target); err != nil || seo.SiteTitle != "Lib" {
		t.Fatalf("restored seo settings: %+v err=%v", seo, err)
	}
}

func TestSnapshot_ImportReplacesNotMerges(t *testing.T) {
	source := newServiceDB(t, snapshotTables()...)
	seedSnapshotFixture(t, source)

	var buf bytes.Buffer
	if err := (&SnapshotService{DB: source}).WriteExport(context.Background(), &buf); err != nil {
		t.Fatalf("WriteExport: %v", err)
	}

	target := newServiceDB(t, snapshotTables()...)
	ctx := context.Background()
	if err := repo.CreateCategory(ctx, target, &domain.Category{Name: "Old", Slug: "old"}); err != nil {
		t.Fatalf("seed target: %v", err)
	}
	if err := repo.CreateDocument(ctx, target, &domain.Document{
		Title: "Pre-existing", Slug: "pre-existing", CategoryID: 1, FilePath: "/x", FileHash: "zz",
	}); err != nil {
		t.Fatalf("seed target doc: %v", err)
	}

	if _, err := (&SnapshotService{DB: target}).Import(ctx, &buf); err != nil {
		t.Fatalf("Import: %v", err)
	}

	if _, err := repo.GetDocumentBySlug(ctx, target, "pre-existing"); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("prior rows must be gone, got %v", err)
	}
	if n, err := repo.CountDocuments(ctx, target); err != nil || n != 1 {
		t.Fatalf("exactly the snapshot's documents should remain: n=%d err=%v", n, err)
	}
}

func TestSnapshot_VersionMismatchRejected(t *testing.T) {
	db := newServiceDB(t, snapshotTables()...)
	svc := &SnapshotService{DB: db}

	artifact := `{"metadata":{"version":"9.9"},"data":{}}`
	if _, err := svc.Import(context.Background(), strings.NewReader(artifact)); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestSnapshot_MalformedJSONRejected(t *testing.T) {
	db := newServiceDB(t, snapshotTables()...)
	svc := &SnapshotService{DB: db}

	if _, err := svc.Import(context.Background(), strings.NewReader("{not json")); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}
}

func TestSnapshot_DanglingReferenceLeavesStoreUntouched(t *testing.T) {
	db := newServiceDB(t, snapshotTables()...)
	seedSnapshotFixture(t, db)
	svc := &SnapshotService{DB: db}
	ctx := context.Background()

	bad := domain.Snapshot{
		Metadata: domain.SnapshotMetadata{Version: domain.SnapshotVersion},
		Data: domain.SnapshotData{
			Categories: []domain.Category{{ID: 1, Name: "C", Slug: "c"}},
			Documents: []domain.Document{
				{ID: 1, Title: "D", Slug: "d", CategoryID: 42, FilePath: "/x", FileHash: "h"},
			},
		},
	}
	raw, err := json.Marshal(bad)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if _, err := svc.Import(ctx, bytes.NewReader(raw)); !errors.Is(err, ErrInvalidSnapshot) {
		t.Fatalf("expected ErrInvalidSnapshot, got %v", err)
	}

	// Validation is fail-closed: the existing dataset is untouched.
	if _, err := repo.GetDocumentBySlug(ctx, db, "kept-doc"); err != nil {
		t.Fatalf("prior dataset should survive a rejected import: %v", err)
	}
}

func TestSnapshot_ExportMetadata(t *testing.T) {
	db := newServiceDB(t, snapshotTables()...)
	snap, err := (&SnapshotService{DB: db}).Export(context.Background())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if snap.Metadata.Version != domain.SnapshotVersion {
		t.Fatalf("version = %q", snap.Metadata.Version)
	}
	if snap.Metadata.ExportedAt.IsZero() {
		t.Fatalf("ExportedAt not stamped")
	}
	if len(snap.Metadata.Tables) != len(domain.SnapshotTables) {
		t.Fatalf("tables: %v", snap.Metadata.Tables)
	}
}
