// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// SlugRedirect model.
//
// Redirect rows are rename history with one row per retired slug. The unique
// index on old_slug surfaces a repeat retirement as a violation; the service
// then repoints the existing row at the newest target instead of keeping a
// stale mapping around.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// CreateSlugRedirect appends one rename record. A duplicate old_slug
// surfaces as the raw unique-violation error; callers treat that as
// already-recorded.
func CreateSlugRedirect(ctx context.Context, db *gorm.DB, r *domain.SlugRedirect) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(r).Error
}

// UpdateSlugRedirectTarget repoints the rename record retiring oldSlug at a
// new target and refreshes its expiry. ErrNotFound when no such record exists.
func UpdateSlugRedirectTarget(ctx context.Context, db *gorm.DB, oldSlug, newSlug string, documentID uint, until *time.Time) error {
	res := db.WithContext(ctx).Model(&domain.SlugRedirect{}).
		Where("old_slug = ?", oldSlug).
		Updates(map[string]any{
			"new_slug":       newSlug,
			"document_id":    documentID,
			"redirect_until": until,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetRedirectByOldSlug returns the rename record retiring oldSlug, or
// ErrNotFound. Expiry is not applied here; the resolver decides.
func GetRedirectByOldSlug(ctx context.Context, db *gorm.DB, oldSlug string) (*domain.SlugRedirect, error) {
	var r domain.SlugRedirect
	if err := db.WithContext(ctx).First(&r, "old_slug = ?", oldSlug).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListRedirects returns the full rename history, newest first (admin view).
func ListRedirects(ctx context.Context, db *gorm.DB) ([]domain.SlugRedirect, error) {
	var out []domain.SlugRedirect
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// DeleteRedirectsForDocument removes all rename history owned by a document.
// Used by the purge retention policy on permanent delete.
func DeleteRedirectsForDocument(ctx context.Context, db *gorm.DB, documentID uint) error {
	return db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&domain.SlugRedirect{}).Error
}
