package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/config"
	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/storage"
)

func newDocumentService(t *testing.T, db *gorm.DB, retention config.RedirectRetention) *DocumentService {
	t.Helper()
	base := t.TempDir()
	store, err := storage.New(
		filepath.Join(base, "tmp"),
		filepath.Join(base, "documents"),
		filepath.Join(base, "covers"),
	)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	return &DocumentService{
		DB:        db,
		Store:     store,
		Redirects: &RedirectService{DB: db},
		Retention: retention,
	}
}

func documentTables() []any {
	return []any{
		&domain.Document{}, &domain.Category{}, &domain.SlugRedirect{},
		&domain.Rating{}, &domain.DmcaRequest{},
	}
}

func TestRename_RecordsRedirectAndOldSlugResolves(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()
	doc := mustSeedDocument(t, db, "old-name", "h1")

	got, err := svc.Rename(ctx, doc.ID, "New Name", "")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got.Title != "New Name" || got.Slug != "new-name" {
		t.Fatalf("renamed document: %+v", got)
	}

	// The retired slug still reaches the document, flagged as a redirect.
	resolved, finalSlug, err := svc.GetBySlug(ctx, "old-name")
	if err != nil {
		t.Fatalf("GetBySlug(old): %v", err)
	}
	if resolved.ID != doc.ID || finalSlug != "new-name" {
		t.Fatalf("old slug should redirect: id=%d final=%q", resolved.ID, finalSlug)
	}
}

func TestRename_TitleOnlyLeavesNoHistory(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()
	doc := mustSeedDocument(t, db, "stable", "h1")

	got, err := svc.Rename(ctx, doc.ID, "Fancier Title", "stable")
	if err != nil {
		t.Fatalf("Rename: %v", err)
	}
	if got.Slug != "stable" || got.Title != "Fancier Title" {
		t.Fatalf("got %+v", got)
	}

	history, err := svc.Redirects.History(ctx)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("title-only rename must not write history: %+v", history)
	}
}

func TestRename_TakenSlugMutatesNothing(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()
	victim := mustSeedDocument(t, db, "victim", "h1")
	mustSeedDocument(t, db, "occupied", "h2")

	if _, err := svc.Rename(ctx, victim.ID, "Whatever", "occupied"); !errors.Is(err, ErrSlugInUse) {
		t.Fatalf("expected ErrSlugInUse, got %v", err)
	}

	// Nothing moved: same slug, same title, no redirect row.
	got, err := repo.GetDocument(ctx, db, victim.ID)
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Slug != "victim" || got.Title != victim.Title {
		t.Fatalf("failed rename must not mutate: %+v", got)
	}
	if history, _ := svc.Redirects.History(ctx); len(history) != 0 {
		t.Fatalf("failed rename must not write history: %+v", history)
	}
}

func TestRename_RedirectedSlugBlocksOtherDocuments(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()
	mover := mustSeedDocument(t, db, "one", "h1")
	other := mustSeedDocument(t, db, "two", "h2")

	if _, err := svc.Rename(ctx, mover.ID, "Moved", "moved"); err != nil {
		t.Fatalf("Rename one->moved: %v", err)
	}

	// "one" has no live document, but it still redirects on behalf of the
	// first one. Claiming it would shadow that redirect.
	if _, err := svc.Rename(ctx, other.ID, "Grab", "one"); !errors.Is(err, ErrSlugInUse) {
		t.Fatalf("expected ErrSlugInUse for redirected slug, got %v", err)
	}
	resolved, _, err := svc.GetBySlug(ctx, "one")
	if err != nil {
		t.Fatalf("GetBySlug(one): %v", err)
	}
	if resolved.ID != mover.ID {
		t.Fatalf("redirect should still serve the original document, got id=%d", resolved.ID)
	}

	// The owning document can move back to its own retired slug.
	got, err := svc.Rename(ctx, mover.ID, "Back", "one")
	if err != nil {
		t.Fatalf("Rename back to own retired slug: %v", err)
	}
	if got.Slug != "one" {
		t.Fatalf("rename-back landed on %q", got.Slug)
	}
}

func TestRename_MissingDocument(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)

	if _, err := svc.Rename(context.Background(), 999, "X", ""); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestUpdateMetadata(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()

	cat := &domain.Category{Name: "Guides", Slug: "guides"}
	if err := repo.CreateCategory(ctx, db, cat); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	doc := mustSeedDocument(t, db, "doc", "h1")

	desc := "fresh description"
	hidden := false
	got, err := svc.UpdateMetadata(ctx, doc.ID, MetadataUpdate{
		Description: &desc,
		CategoryID:  &cat.ID,
		IsPublic:    &hidden,
	})
	if err != nil {
		t.Fatalf("UpdateMetadata: %v", err)
	}
	if got.Description != desc || got.CategoryID != cat.ID || got.IsPublic {
		t.Fatalf("updated document: %+v", got)
	}
	// Untouched fields keep their values.
	if got.Slug != "doc" || got.Title != doc.Title {
		t.Fatalf("identity fields must not change: %+v", got)
	}

	missing := uint(999)
	if _, err := svc.UpdateMetadata(ctx, doc.ID, MetadataUpdate{CategoryID: &missing}); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("unknown category: got %v", err)
	}
}

func TestRate_CreateFlipAndTallies(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()
	doc := mustSeedDocument(t, db, "rated", "h1")

	sum, err := svc.Rate(ctx, doc.ID, "ip:1.1.1.1", nil, true)
	if err != nil {
		t.Fatalf("first vote: %v", err)
	}
	if sum.Positive != 1 || sum.Negative != 0 {
		t.Fatalf("after first vote: %+v", sum)
	}

	// Re-voting the same way changes nothing.
	sum, err = svc.Rate(ctx, doc.ID, "ip:1.1.1.1", nil, true)
	if err != nil {
		t.Fatalf("repeat vote: %v", err)
	}
	if sum.Positive != 1 || sum.Negative != 0 {
		t.Fatalf("repeat vote must not double-count: %+v", sum)
	}

	// Flipping moves the vote across.
	sum, err = svc.Rate(ctx, doc.ID, "ip:1.1.1.1", nil, false)
	if err != nil {
		t.Fatalf("flip vote: %v", err)
	}
	if sum.Positive != 0 || sum.Negative != 1 {
		t.Fatalf("after flip: %+v", sum)
	}

	// A second rater tallies independently.
	sum, err = svc.Rate(ctx, doc.ID, "ip:2.2.2.2", nil, true)
	if err != nil {
		t.Fatalf("second rater: %v", err)
	}
	if sum.Positive != 1 || sum.Negative != 1 {
		t.Fatalf("two raters: %+v", sum)
	}

	if _, err := svc.Rate(ctx, 999, "ip:1.1.1.1", nil, true); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("unknown document: got %v", err)
	}
}

func TestDelete_PurgesEverythingAndRemovesFiles(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()

	doc := mustSeedDocument(t, db, "doomed", "h1")

	// Give it a real file and cover on disk.
	filePath := filepath.Join(t.TempDir(), "doomed.pdf")
	if err := os.WriteFile(filePath, []byte("pdf"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	coverPath := filepath.Join(svc.Store.CoverDir(), "doomed.png")
	if err := os.WriteFile(coverPath, []byte("png"), 0o644); err != nil {
		t.Fatalf("write cover: %v", err)
	}
	if err := repo.UpdateDocument(ctx, db, doc.ID, map[string]any{
		"file_path": filePath, "cover_image": "doomed.png",
	}); err != nil {
		t.Fatalf("attach files: %v", err)
	}

	// Attach dependents of every kind.
	if err := repo.CreateRating(ctx, db, &domain.Rating{DocumentID: doc.ID, Rater: "a", IsPositive: true}); err != nil {
		t.Fatalf("seed rating: %v", err)
	}
	if err := repo.CreateDmcaRequest(ctx, db, &domain.DmcaRequest{DocumentID: doc.ID, RequesterName: "A", RequesterEmail: "a@example.com", Reason: "x"}); err != nil {
		t.Fatalf("seed dmca: %v", err)
	}
	if err := svc.Redirects.RecordRename(ctx, "doomed-old", "doomed", doc.ID); err != nil {
		t.Fatalf("seed redirect: %v", err)
	}

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetDocument(ctx, db, doc.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("row should be gone, got %v", err)
	}
	if pos, neg, _ := repo.CountRatings(ctx, db, doc.ID); pos != 0 || neg != 0 {
		t.Fatalf("ratings should be purged: %d/%d", pos, neg)
	}
	if n, _ := repo.CountPendingDmca(ctx, db); n != 0 {
		t.Fatalf("dmca rows should be purged, %d left", n)
	}
	if history, _ := svc.Redirects.History(ctx); len(history) != 0 {
		t.Fatalf("purge policy should drop history: %+v", history)
	}
	if _, err := os.Stat(filePath); !os.IsNotExist(err) {
		t.Fatalf("pdf should be unlinked, stat: %v", err)
	}
	if _, err := os.Stat(coverPath); !os.IsNotExist(err) {
		t.Fatalf("cover should be unlinked, stat: %v", err)
	}

	if err := svc.Delete(ctx, doc.ID); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("second delete: got %v", err)
	}
}

func TestDelete_RetainKeepsHistory(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionRetain)
	ctx := context.Background()

	doc := mustSeedDocument(t, db, "kept-history", "h1")
	if err := svc.Redirects.RecordRename(ctx, "former", "kept-history", doc.ID); err != nil {
		t.Fatalf("seed redirect: %v", err)
	}

	if err := svc.Delete(ctx, doc.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	history, err := svc.Redirects.History(ctx)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("retain policy should keep history: %+v", history)
	}
	// The dangling entry no longer resolves to anything.
	if _, _, err := svc.GetBySlug(ctx, "former"); !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("dangling redirect should not resolve, got %v", err)
	}
}

func TestList_PaginationClamps(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		mustSeedDocument(t, db, "doc-"+string(rune('a'+i)), "h"+string(rune('a'+i)))
	}

	page, err := svc.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 5 || len(page.Items) != 2 || page.TotalPages != 3 {
		t.Fatalf("page 1: total=%d items=%d pages=%d", page.Total, len(page.Items), page.TotalPages)
	}

	// Out-of-range values snap to the defaults.
	page, err = svc.List(ctx, 0, 1000)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Page != 1 || page.PerPage != 20 {
		t.Fatalf("clamped page: %+v", page)
	}

	last, err := svc.List(ctx, 3, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(last.Items) != 1 {
		t.Fatalf("last page should hold the remainder, got %d", len(last.Items))
	}
}

func TestByCategory_UnknownCategory(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)

	if _, err := svc.ByCategory(context.Background(), 42); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestReplaceCover_SwapsFileAndRow(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)
	ctx := context.Background()
	doc := mustSeedDocument(t, db, "covered", "h1")

	// Seed an existing cover file and point the row at it.
	oldCover := "old-cover.png"
	oldPath := filepath.Join(svc.Store.CoverDir(), oldCover)
	if err := os.WriteFile(oldPath, []byte("old"), 0o600); err != nil {
		t.Fatalf("seed old cover: %v", err)
	}
	if err := db.Model(doc).Update("cover_image", oldCover).Error; err != nil {
		t.Fatalf("seed cover column: %v", err)
	}

	got, err := svc.ReplaceCover(ctx, doc.ID, strings.NewReader("new png"), "fresh.png")
	if err != nil {
		t.Fatalf("ReplaceCover: %v", err)
	}
	if got.CoverImage == "" || got.CoverImage == oldCover {
		t.Fatalf("cover column not swapped: %q", got.CoverImage)
	}

	newPath := filepath.Join(svc.Store.CoverDir(), got.CoverImage)
	data, err := os.ReadFile(newPath)
	if err != nil {
		t.Fatalf("read new cover: %v", err)
	}
	if string(data) != "new png" {
		t.Fatalf("new cover content = %q", data)
	}
	if _, err := os.Stat(oldPath); !os.IsNotExist(err) {
		t.Fatalf("old cover file should be gone, stat err = %v", err)
	}
}

func TestReplaceCover_MissingDocument(t *testing.T) {
	db := newServiceDB(t, documentTables()...)
	svc := newDocumentService(t, db, config.RetentionPurge)

	_, err := svc.ReplaceCover(context.Background(), 999, strings.NewReader("x"), "c.png")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("err = %v; want ErrDocumentNotFound", err)
	}
}
