// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides cheap aggregate queries used for weak
// ETags on list endpoints and for the admin statistics view.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// DocumentStats returns the document count and the latest updated_at
// timestamp (nil when the table is empty). The pair changes whenever the
// listing would, which makes it a cheap weak-ETag source.
func DocumentStats(ctx context.Context, db *gorm.DB) (int64, *time.Time, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Document{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	var row struct{ Max *time.Time }
	err := db.WithContext(ctx).
		Model(&domain.Document{}).
		Select("MAX(updated_at) AS max").
		Scan(&row).Error
	if err != nil {
		return 0, nil, err
	}
	return count, row.Max, nil
}

// CounterTotals sums the view and download counters over all documents.
func CounterTotals(ctx context.Context, db *gorm.DB) (views, downloads int64, err error) {
	var row struct {
		Views     int64
		Downloads int64
	}
	err = db.WithContext(ctx).
		Model(&domain.Document{}).
		Select("COALESCE(SUM(views),0) AS views, COALESCE(SUM(downloads),0) AS downloads").
		Scan(&row).Error
	return row.Views, row.Downloads, err
}
