package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/config"
	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/storage"
)

// DocumentService covers reads, metadata edits, renames, counters, ratings,
// and permanent deletion. Renames and deletes span several tables and run in
// a single transaction each.
type DocumentService struct {
	DB        *gorm.DB
	Store     *storage.Store
	Redirects *RedirectService

	// Retention decides what happens to a document's rename history on
	// permanent delete.
	Retention config.RedirectRetention
}

// Page is one page of a listing plus the totals pagination needs.
type Page struct {
	Items      []domain.Document `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PerPage    int               `json:"per_page"`
	TotalPages int               `json:"total_pages"`
}

// RatingSummary tallies a document's thumb votes.
type RatingSummary struct {
	Positive int64 `json:"positive"`
	Negative int64 `json:"negative"`
}

// Get fetches a document by id.
func (s *DocumentService) Get(ctx context.Context, id uint) (*domain.Document, error) {
	doc, err := repo.GetDocument(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	return doc, err
}

// GetBySlug resolves slug — following rename history when needed — to the
// live document. finalSlug differs from slug exactly when a redirect fired;
// handlers turn that into a 301.
func (s *DocumentService) GetBySlug(ctx context.Context, slug string) (doc *domain.Document, finalSlug string, err error) {
	return s.Redirects.Resolve(ctx, slug)
}

// List returns one page of documents, newest first. Page and perPage are
// clamped to sane values.
func (s *DocumentService) List(ctx context.Context, page, perPage int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	total, err := repo.CountDocuments(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListDocumentsPage(ctx, s.DB, (page-1)*perPage, perPage)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

// Recent returns the newest public documents.
func (s *DocumentService) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return repo.ListRecentDocuments(ctx, s.DB, limit)
}

// Popular returns the most viewed public documents.
func (s *DocumentService) Popular(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return repo.ListPopularDocuments(ctx, s.DB, limit)
}

// ByCategory lists a category's documents, newest first.
func (s *DocumentService) ByCategory(ctx context.Context, categoryID uint) ([]domain.Document, error) {
	if _, err := repo.GetCategory(ctx, s.DB, categoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return repo.ListDocumentsByCategory(ctx, s.DB, categoryID)
}

// MetadataUpdate carries the editable fields of UpdateMetadata. Nil pointers
// leave the column untouched.
type MetadataUpdate struct {
	Description *string
	CategoryID  *uint
	IsPublic    *bool
	CoverImage  *string
}

// UpdateMetadata edits non-identity fields. The slug is untouched here —
// slug changes go through Rename so the history stays consistent.
func (s *DocumentService) UpdateMetadata(ctx context.Context, id uint, upd MetadataUpdate) (*domain.Document, error) {
	updates := map[string]any{"updated_at": time.Now().UTC()}
	if upd.Description != nil {
		updates["description"] = *upd.Description
	}
	if upd.CategoryID != nil {
		if _, err := repo.GetCategory(ctx, s.DB, *upd.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
		updates["category_id"] = *upd.CategoryID
	}
	if upd.IsPublic != nil {
		updates["is_public"] = *upd.IsPublic
	}
	if upd.CoverImage != nil {
		updates["cover_image"] = *upd.CoverImage
	}

	if err := repo.UpdateDocument(ctx, s.DB, id, updates); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}
	return repo.GetDocument(ctx, s.DB, id)
}

// ReplaceCover stores a new cover image for the document and removes the old
// file once the row points at the new one. A failed row update cleans up the
// freshly written file instead.
func (s *DocumentService) ReplaceCover(ctx context.Context, id uint, r io.Reader, originalName string) (*domain.Document, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.Store.SaveCover(r, originalName)
	if err != nil {
		return nil, err
	}

	err = repo.UpdateDocument(ctx, s.DB, id, map[string]any{
		"cover_image": name,
		"updated_at":  time.Now().UTC(),
	})
	if err != nil {
		s.Store.Remove(filepath.Join(s.Store.CoverDir(), name))
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	if doc.CoverImage != "" && doc.CoverImage != name {
		s.Store.Remove(filepath.Join(s.Store.CoverDir(), doc.CoverImage))
	}
	return repo.GetDocument(ctx, s.DB, id)
}

// Rename retitles a document and moves it to a new slug, retiring the old one
// into the redirect history. newSlug may be empty, in which case it is
// derived from newTitle. A target slug held by a different live document, or
// still redirecting on behalf of one, fails with ErrSlugInUse and mutates
// nothing. A redirect the document itself owns does not block, so a document
// can move back to a name it retired earlier.
//
// The slug update and the history append commit atomically; a reader sees
// either the old state or the new slug plus its redirect, never a gap.
func (s *DocumentService) Rename(ctx context.Context, id uint, newTitle, newSlug string) (*domain.Document, error) {
	if newSlug == "" {
		newSlug = Slugify(newTitle)
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := repo.GetDocument(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrDocumentNotFound
			}
			return err
		}

		updates := map[string]any{
			"title":      newTitle,
			"updated_at": time.Now().UTC(),
		}
		if newSlug == doc.Slug {
			// Title-only change; no history entry.
			return repo.UpdateDocument(ctx, tx, id, updates)
		}

		taken, err := repo.SlugExists(ctx, tx, newSlug)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlugInUse
		}
		if red, err := repo.GetRedirectByOldSlug(ctx, tx, newSlug); err == nil {
			if !redirectExpired(red) && red.DocumentID != id {
				return ErrSlugInUse
			}
		} else if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		updates["slug"] = newSlug
		if err := repo.UpdateDocument(ctx, tx, id, updates); err != nil {
			if isDuplicate(err) {
				return ErrSlugInUse
			}
			return err
		}
		return s.Redirects.RecordRenameTx(ctx, tx, doc.Slug, newSlug, id)
	})
	if err != nil {
		return nil, err
	}
	return repo.GetDocument(ctx, s.DB, id)
}

// RegisterView bumps the view counter. Missing ids are ignored; counters are
// best-effort by design.
func (s *DocumentService) RegisterView(ctx context.Context, id uint) error {
	return repo.IncrementViews(ctx, s.DB, id)
}

// RegisterDownload bumps the download counter.
func (s *DocumentService) RegisterDownload(ctx context.Context, id uint) error {
	return repo.IncrementDownloads(ctx, s.DB, id)
}

// Rate upserts a thumb vote keyed by (document, rater) — rater is a user id
// string or the client IP for anonymous votes — and returns the new tallies.
func (s *DocumentService) Rate(ctx context.Context, documentID uint, rater string, userID *uint, positive bool) (*RatingSummary, error) {
	if _, err := s.Get(ctx, documentID); err != nil {
		return nil, err
	}

	existing, err := repo.GetRating(ctx, s.DB, documentID, rater)
	switch {
	case err == nil:
		if existing.IsPositive != positive {
			if err := repo.UpdateRatingValue(ctx, s.DB, existing.ID, positive); err != nil {
				return nil, err
			}
		}
	case errors.Is(err, repo.ErrNotFound):
		err = repo.CreateRating(ctx, s.DB, &domain.Rating{
			DocumentID: documentID,
			Rater:      rater,
			UserID:     userID,
			IsPositive: positive,
		})
		// A concurrent vote from the same rater can win the unique index
		// race; the row exists either way.
		if err != nil && !isDuplicate(err) {
			return nil, err
		}
	default:
		return nil, err
	}

	pos, neg, err := repo.CountRatings(ctx, s.DB, documentID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{Positive: pos, Negative: neg}, nil
}

// Ratings returns a document's vote tallies.
func (s *DocumentService) Ratings(ctx context.Context, documentID uint) (*RatingSummary, error) {
	pos, neg, err := repo.CountRatings(ctx, s.DB, documentID)
	if err != nil {
		return nil, err
	}
	return &RatingSummary{Positive: pos, Negative: neg}, nil
}

// Delete permanently removes a document: its row, ratings, takedown records,
// and — under the purge retention policy — its rename history, all in one
// transaction. The PDF and cover files are unlinked after commit; a file
// cleanup failure is logged but does not undo the delete.
func (s *DocumentService) Delete(ctx context.Context, id uint) error {
	var filePath, coverPath string

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		doc, err := repo.GetDocument(ctx, tx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrDocumentNotFound
			}
			return err
		}
		filePath = doc.FilePath
		if doc.CoverImage != "" {
			coverPath = filepath.Join(s.Store.CoverDir(), doc.CoverImage)
		}

		if err := repo.DeleteRatingsForDocument(ctx, tx, id); err != nil {
			return err
		}
		if err := repo.DeleteDmcaForDocument(ctx, tx, id); err != nil {
			return err
		}
		if s.Retention != config.RetentionRetain {
			if err := repo.DeleteRedirectsForDocument(ctx, tx, id); err != nil {
				return err
			}
		}
		return repo.DeleteDocument(ctx, tx, id)
	})
	if err != nil {
		return err
	}

	s.Store.Remove(filePath)
	s.Store.Remove(coverPath)
	return nil
}
