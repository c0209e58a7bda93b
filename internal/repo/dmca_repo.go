// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// DmcaRequest model.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// CreateDmcaRequest inserts a takedown complaint. Status defaults to pending.
func CreateDmcaRequest(ctx context.Context, db *gorm.DB, r *domain.DmcaRequest) error {
	if r.Status == "" {
		r.Status = domain.DmcaStatusPending
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(r).Error
}

// GetDmcaRequest fetches a complaint by id, or ErrNotFound.
func GetDmcaRequest(ctx context.Context, db *gorm.DB, id uint) (*domain.DmcaRequest, error) {
	var r domain.DmcaRequest
	if err := db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListDmcaRequests returns all complaints, newest first.
func ListDmcaRequests(ctx context.Context, db *gorm.DB) ([]domain.DmcaRequest, error) {
	var out []domain.DmcaRequest
	err := db.WithContext(ctx).Order("created_at desc").Find(&out).Error
	return out, err
}

// CountPendingDmca returns how many complaints are still pending.
func CountPendingDmca(ctx context.Context, db *gorm.DB) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.DmcaRequest{}).
		Where("status = ?", domain.DmcaStatusPending).
		Count(&n).Error
	return n, err
}

// UpdateDmcaStatus transitions a complaint's status. Returns ErrNotFound
// when the row is missing. Status validity is the service's concern.
func UpdateDmcaStatus(ctx context.Context, db *gorm.DB, id uint, status string) error {
	res := db.WithContext(ctx).
		Model(&domain.DmcaRequest{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteDmcaForDocument removes complaints referencing a document (permanent
// document delete cascade).
func DeleteDmcaForDocument(ctx context.Context, db *gorm.DB, documentID uint) error {
	return db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&domain.DmcaRequest{}).Error
}
