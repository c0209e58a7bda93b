package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

// RedirectService maintains the rename history and resolves retired slugs to
// the document currently holding them.
type RedirectService struct {
	DB *gorm.DB

	// TTL is how long a retired slug keeps redirecting. Zero means one year.
	TTL time.Duration

	// MaxHops bounds chain walks (a -> b -> c ...). Zero means a small
	// default; a chain longer than the bound resolves as not found rather
	// than looping.
	MaxHops int
}

const (
	defaultRedirectTTL  = 365 * 24 * time.Hour
	defaultRedirectHops = 8
)

// RecordRename records one history entry retiring oldSlug in favor of
// newSlug. Retiring the same slug again supersedes the earlier entry: the row
// is repointed at the newest target and its expiry window restarts, so a slug
// that cycles through a document (a -> b, b -> a, a -> c) never keeps a stale
// mapping to an intermediate name.
func (s *RedirectService) RecordRename(ctx context.Context, oldSlug, newSlug string, documentID uint) error {
	return s.RecordRenameTx(ctx, s.DB, oldSlug, newSlug, documentID)
}

// RecordRenameTx is RecordRename against an explicit handle, so a rename can
// write its history entry inside the same transaction as the slug update.
func (s *RedirectService) RecordRenameTx(ctx context.Context, db *gorm.DB, oldSlug, newSlug string, documentID uint) error {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = defaultRedirectTTL
	}
	until := time.Now().UTC().Add(ttl)

	err := repo.CreateSlugRedirect(ctx, db, &domain.SlugRedirect{
		OldSlug:       oldSlug,
		NewSlug:       newSlug,
		DocumentID:    documentID,
		RedirectUntil: &until,
	})
	if err != nil && isDuplicate(err) {
		return repo.UpdateSlugRedirectTarget(ctx, db, oldSlug, newSlug, documentID, &until)
	}
	return err
}

// Resolve follows the rename history from slug to the live document that
// currently holds it. It returns the document plus the final slug, so callers
// can tell a direct hit (finalSlug == slug) from a redirect.
//
// Expired entries do not resolve, and a chain longer than MaxHops returns
// ErrDocumentNotFound instead of walking forever.
func (s *RedirectService) Resolve(ctx context.Context, slug string) (*domain.Document, string, error) {
	maxHops := s.MaxHops
	if maxHops <= 0 {
		maxHops = defaultRedirectHops
	}

	current := slug
	for hop := 0; hop <= maxHops; hop++ {
		doc, err := repo.GetDocumentBySlug(ctx, s.DB, current)
		if err == nil {
			return doc, current, nil
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, "", err
		}

		red, err := repo.GetRedirectByOldSlug(ctx, s.DB, current)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, "", ErrDocumentNotFound
			}
			return nil, "", err
		}
		if redirectExpired(red) {
			return nil, "", ErrDocumentNotFound
		}
		current = red.NewSlug
	}
	return nil, "", ErrDocumentNotFound
}

// Lookup returns the single rename record retiring slug, honoring expiry.
// ErrRedirectNotFound covers both a missing and an expired entry.
func (s *RedirectService) Lookup(ctx context.Context, slug string) (*domain.SlugRedirect, error) {
	red, err := repo.GetRedirectByOldSlug(ctx, s.DB, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRedirectNotFound
		}
		return nil, err
	}
	if redirectExpired(red) {
		return nil, ErrRedirectNotFound
	}
	return red, nil
}

// History returns the full rename history, newest first.
func (s *RedirectService) History(ctx context.Context) ([]domain.SlugRedirect, error) {
	return repo.ListRedirects(ctx, s.DB)
}

// redirectExpired reports whether the entry's redirect window has lapsed.
// A nil RedirectUntil never expires.
func redirectExpired(r *domain.SlugRedirect) bool {
	return r.RedirectUntil != nil && !r.RedirectUntil.After(time.Now().UTC())
}
