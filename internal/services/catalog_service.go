package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

// CatalogService manages the category taxonomy documents are filed under.
type CatalogService struct {
	DB *gorm.DB
}

// CreateCategory adds a category. The slug is derived from the name when not
// given; a slug collision surfaces as ErrSlugInUse.
func (s *CatalogService) CreateCategory(ctx context.Context, name, slug string) (*domain.Category, error) {
	if slug == "" {
		slug = Slugify(name)
	}
	c := &domain.Category{Name: name, Slug: slug}
	if err := repo.CreateCategory(ctx, s.DB, c); err != nil {
		if isDuplicate(err) {
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return c, nil
}

// GetCategory fetches one category.
func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*domain.Category, error) {
	c, err := repo.GetCategory(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrCategoryNotFound
	}
	return c, err
}

// ListCategories returns all categories ordered by name.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return repo.ListCategories(ctx, s.DB)
}

// UpdateCategory renames a category. Category slugs have no redirect
// history; documents reference them by id, so old category URLs just 404.
func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, name, slug string) (*domain.Category, error) {
	if slug == "" {
		slug = Slugify(name)
	}
	if err := repo.UpdateCategory(ctx, s.DB, id, name, slug); err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return nil, ErrCategoryNotFound
		case isDuplicate(err):
			return nil, ErrSlugInUse
		}
		return nil, err
	}
	return repo.GetCategory(ctx, s.DB, id)
}

// DeleteCategory removes an empty category. A category still referenced by
// documents is rejected with ErrCategoryInUse.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	n, err := repo.CountDocumentsInCategory(ctx, s.DB, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return ErrCategoryInUse
	}
	if err := repo.DeleteCategory(ctx, s.DB, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return nil
}
