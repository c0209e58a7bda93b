package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

// Slugify normalizes a title into URL-safe form: lower-cased ASCII letters and
// digits with single-hyphen separators, no leading or trailing hyphen. An
// input with no usable characters yields "untitled".
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	pendingHyphen := false
	for _, r := range strings.ToLower(title) {
		switch {
		// ASCII only: Unicode digits (arabic-indic, fullwidth, ...) would
		// leak into the slug alphabet.
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	s := b.String()
	if s == "" {
		return "untitled"
	}
	return s
}

// Fingerprint returns the lowercase hex MD5 digest of the given bytes. The
// digest identifies exact-duplicate uploads, not tampering, so a fast
// non-cryptographic-strength hash is acceptable here.
func Fingerprint(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

// FingerprintFile streams the file at path through MD5 and returns the
// lowercase hex digest without loading the file into memory.
func FingerprintFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SlugAllocator hands out slugs that are unique across live documents. The
// unique index on documents.slug is authoritative: the allocator probes for a
// free candidate and the caller's insert is retried on a unique violation, so
// two concurrent uploads with the same title cannot both win the base slug.
type SlugAllocator struct {
	DB *gorm.DB

	// MaxAttempts bounds the "-2", "-3", ... disambiguation suffixes tried
	// after the base slug. Zero means a small default.
	MaxAttempts int
}

const defaultSlugAttempts = 5

// Allocate returns the base slug for title if it is free, otherwise the first
// free "base-N" variant starting at N=2. ErrSlugExhausted after MaxAttempts.
//
// A slug held only by an expired redirect entry is considered free; live
// documents and unexpired redirects both block reuse.
func (a *SlugAllocator) Allocate(ctx context.Context, title string) (string, error) {
	base := Slugify(title)
	max := a.MaxAttempts
	if max <= 0 {
		max = defaultSlugAttempts
	}

	for i := 1; i <= max; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := a.taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

// Next returns the follow-up candidate after a unique violation on slug: the
// base with the next suffix. It lets insert loops advance without re-probing.
func (a *SlugAllocator) Next(ctx context.Context, title, lost string) (string, error) {
	base := Slugify(title)
	max := a.MaxAttempts
	if max <= 0 {
		max = defaultSlugAttempts
	}

	start := 2
	if n := suffixOf(lost, base); n > 0 {
		start = n + 1
	}
	for i := start; i <= max; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		taken, err := a.taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", ErrSlugExhausted
}

func (a *SlugAllocator) taken(ctx context.Context, slug string) (bool, error) {
	exists, err := repo.SlugExists(ctx, a.DB, slug)
	if err != nil || exists {
		return exists, err
	}
	red, err := repo.GetRedirectByOldSlug(ctx, a.DB, slug)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return !redirectExpired(red), nil
}

// suffixOf extracts N from "base-N", or 0 when slug is not such a variant.
func suffixOf(slug, base string) int {
	rest, ok := strings.CutPrefix(slug, base+"-")
	if !ok {
		return 0
	}
	n := 0
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// isDuplicate reports whether err is a unique-constraint violation, across
// the SQLite and Postgres drivers GORM wraps.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
