package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/search"
)

// SearchService answers fuzzy title/description queries against an in-memory
// index. Callers Rebuild after any write that changes titles or visibility;
// lookups between rebuilds serve the last built state.
type SearchService struct {
	DB    *gorm.DB
	Index *search.Index
}

// Rebuild reloads the index from the database. Only public documents are
// searchable.
func (s *SearchService) Rebuild(ctx context.Context) error {
	docs, err := repo.ListAllDocuments(ctx, s.DB)
	if err != nil {
		return err
	}

	entries := make([]search.Entry, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if !d.IsPublic {
			continue
		}
		entries = append(entries, search.Entry{ID: d.ID, Title: d.Title})
		texts = append(texts, d.Title+" "+d.Description)
	}
	s.Index.Replace(entries, texts)
	return nil
}

// Search resolves index hits back to full documents, preserving rank order.
// Documents deleted since the last rebuild are silently dropped.
func (s *SearchService) Search(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	hits := s.Index.Search(query, limit)
	out := make([]domain.Document, 0, len(hits))
	for _, h := range hits {
		doc, err := repo.GetDocument(ctx, s.DB, h.ID)
		if err != nil {
			continue
		}
		out = append(out, *doc)
	}
	return out, nil
}
