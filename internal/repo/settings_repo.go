// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the singleton
// settings rows (SEO and site). Both live at id 1: reads return an empty
// value when the row does not exist yet, writes upsert it.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

const settingsRowID = 1

// GetSeoSettings returns the SEO settings row, or a zero value when unset.
func GetSeoSettings(ctx context.Context, db *gorm.DB) (*domain.SeoSettings, error) {
	var s domain.SeoSettings
	err := db.WithContext(ctx).First(&s, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.SeoSettings{ID: settingsRowID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSeoSettings writes the SEO settings row in place.
func UpsertSeoSettings(ctx context.Context, db *gorm.DB, s *domain.SeoSettings) error {
	s.ID = settingsRowID
	s.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}

// GetSiteSettings returns the site settings row, or a zero value when unset.
func GetSiteSettings(ctx context.Context, db *gorm.DB) (*domain.SiteSettings, error) {
	var s domain.SiteSettings
	err := db.WithContext(ctx).First(&s, "id = ?", settingsRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.SiteSettings{ID: settingsRowID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSiteSettings writes the site settings row in place.
func UpsertSiteSettings(ctx context.Context, db *gorm.DB, s *domain.SiteSettings) error {
	s.ID = settingsRowID
	s.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(s).Error
}
