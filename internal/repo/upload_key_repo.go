// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file tracks consumed Idempotency-Keys for the
// ingestion endpoints: a key is unique per uploader and expires after a TTL,
// so an accidental client retry of a whole upload is rejected instead of
// re-running the pipeline.
package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// GetUploadKey returns the live (non-expired) record for (uploadID, key), or
// nil when absent. Expired rows are treated as absent.
func GetUploadKey(ctx context.Context, db *gorm.DB, uploadID, key string, now time.Time) (*domain.UploadKey, error) {
	var rec domain.UploadKey
	err := db.WithContext(ctx).
		First(&rec, "upload_id = ? AND key = ? AND expires_at > ?", uploadID, key, now).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// PutUploadKey records a consumed key with the given TTL. A concurrent
// duplicate insert surfaces as the raw unique-violation error; callers treat
// it the same as a replay.
func PutUploadKey(ctx context.Context, db *gorm.DB, uploadID, key string, now time.Time, ttl time.Duration) error {
	rec := &domain.UploadKey{
		UploadID:  uploadID,
		Key:       key,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return db.WithContext(ctx).Create(rec).Error
}

// PurgeExpiredUploadKeys deletes rows whose TTL has lapsed.
func PurgeExpiredUploadKeys(ctx context.Context, db *gorm.DB, now time.Time) error {
	return db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.UploadKey{}).Error
}
