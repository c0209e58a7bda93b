// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Category
// model. Categories are referenced (not owned) by documents; deleting one is
// rejected while documents still point at it.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// CreateCategory inserts a new Category row. The slug unique index surfaces
// collisions as the raw DB error.
func CreateCategory(ctx context.Context, db *gorm.DB, c *domain.Category) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(c).Error
}

// GetCategory fetches a category by id, or ErrNotFound.
func GetCategory(ctx context.Context, db *gorm.DB, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories returns all categories ordered by name.
func ListCategories(ctx context.Context, db *gorm.DB) ([]domain.Category, error) {
	var out []domain.Category
	err := db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, err
}

// UpdateCategory updates name and slug. Returns ErrNotFound when the row is
// missing; slug collisions surface as the raw unique-violation error.
func UpdateCategory(ctx context.Context, db *gorm.DB, id uint, name, slug string) error {
	res := db.WithContext(ctx).
		Model(&domain.Category{}).
		Where("id = ?", id).
		Updates(map[string]any{"name": name, "slug": slug})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteCategory removes a category row. Returns ErrNotFound when missing.
func DeleteCategory(ctx context.Context, db *gorm.DB, id uint) error {
	res := db.WithContext(ctx).Delete(&domain.Category{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountDocumentsInCategory returns how many documents reference the category.
func CountDocumentsInCategory(ctx context.Context, db *gorm.DB, id uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Document{}).
		Where("category_id = ?", id).
		Count(&n).Error
	return n, err
}
