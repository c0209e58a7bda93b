// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Rating
// model. Uniqueness per (document, rater) relies on the database unique
// index; the service layer translates violations into upsert semantics.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// CreateRating inserts a rating row. A duplicate (document_id, rater) pair
// surfaces as the raw unique-violation error.
func CreateRating(ctx context.Context, db *gorm.DB, r *domain.Rating) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(r).Error
}

// GetRating returns the rating left by rater on a document, or ErrNotFound.
func GetRating(ctx context.Context, db *gorm.DB, documentID uint, rater string) (*domain.Rating, error) {
	var r domain.Rating
	err := db.WithContext(ctx).
		First(&r, "document_id = ? AND rater = ?", documentID, rater).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateRatingValue flips the polarity of an existing rating.
func UpdateRatingValue(ctx context.Context, db *gorm.DB, id uint, isPositive bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("id = ?", id).
		Update("is_positive", isPositive)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountRatings returns the positive and negative tallies for a document.
func CountRatings(ctx context.Context, db *gorm.DB, documentID uint) (positive, negative int64, err error) {
	if err = db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("document_id = ? AND is_positive = ?", documentID, true).
		Count(&positive).Error; err != nil {
		return 0, 0, err
	}
	err = db.WithContext(ctx).
		Model(&domain.Rating{}).
		Where("document_id = ? AND is_positive = ?", documentID, false).
		Count(&negative).Error
	return positive, negative, err
}

// DeleteRatingsForDocument removes all ratings on a document (permanent
// document delete cascade).
func DeleteRatingsForDocument(ctx context.Context, db *gorm.DB, documentID uint) error {
	return db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Delete(&domain.Rating{}).Error
}
