// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Document
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a document is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated. In particular, CreateDocument
//     surfaces the unique-index violation on slug unchanged so the slug
//     allocator can detect it and retry with a new disambiguation.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateDocument inserts a new Document row. CreatedAt is set to UTC when
// unset. The slug unique index is the authoritative uniqueness check; a
// violation comes back as the raw DB error.
func CreateDocument(ctx context.Context, db *gorm.DB, d *domain.Document) error {
	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(d).Error
}

// GetDocument fetches a document by its numeric id, or ErrNotFound.
func GetDocument(ctx context.Context, db *gorm.DB, id uint) (*domain.Document, error) {
	var d domain.Document
	if err := db.WithContext(ctx).First(&d, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDocumentBySlug fetches a document by its current slug, or ErrNotFound.
func GetDocumentBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Document, error) {
	var d domain.Document
	if err := db.WithContext(ctx).First(&d, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDocumentByHash returns the first document carrying the given content
// fingerprint, or ErrNotFound. This is the duplicate index: a pure read used
// as a pre-check before committing a new document.
func FindDocumentByHash(ctx context.Context, db *gorm.DB, hash string) (*domain.Document, error) {
	var d domain.Document
	if err := db.WithContext(ctx).First(&d, "file_hash = ?", hash).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

// SlugExists reports whether any current document holds slug.
func SlugExists(ctx context.Context, db *gorm.DB, slug string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("slug = ?", slug).
		Count(&n).Error
	return n > 0, err
}

// CountDocuments returns the total number of documents.
func CountDocuments(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Document{}).Count(&total).Error
	return total, err
}

// ListDocumentsPage returns a page of documents ordered by creation time
// descending. The caller computes offset and limit.
func ListDocumentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Document, error) {
	var out []domain.Document
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListDocumentsByCategory returns all documents in a category, newest first.
func ListDocumentsByCategory(ctx context.Context, db *gorm.DB, categoryID uint) ([]domain.Document, error) {
	var out []domain.Document
	err := db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("created_at desc").
		Find(&out).Error
	return out, err
}

// ListRecentDocuments returns the most recently created public documents.
func ListRecentDocuments(ctx context.Context, db *gorm.DB, limit int) ([]domain.Document, error) {
	var out []domain.Document
	err := db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListPopularDocuments returns the most viewed public documents.
func ListPopularDocuments(ctx context.Context, db *gorm.DB, limit int) ([]domain.Document, error) {
	var out []domain.Document
	err := db.WithContext(ctx).
		Where("is_public = ?", true).
		Order("views desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListAllDocuments returns every document, newest first (admin listing and
// the search index rebuild).
func ListAllDocuments(ctx context.Context, db *gorm.DB) ([]domain.Document, error) {
	var out []domain.Document
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// UpdateDocument applies the given column updates to a document. Returns
// ErrNotFound when no row was affected. Slug collisions surface as the raw
// unique-violation error.
func UpdateDocument(ctx context.Context, db *gorm.DB, id uint, updates map[string]any) error {
	res := db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDocument permanently removes a document row. On-disk cleanup and the
// cascade policy for dependents are the service layer's responsibility.
func DeleteDocument(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Document{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementViews bumps the view counter atomically in SQL.
func IncrementViews(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// IncrementDownloads bumps the download counter atomically in SQL.
func IncrementDownloads(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("id = ?", id).
		UpdateColumn("downloads", gorm.Expr("downloads + 1")).Error
}
