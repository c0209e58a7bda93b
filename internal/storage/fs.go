// Package storage provides the disk-backed file store for uploaded documents
// and generated cover images. Uploads land in a temp directory first and are
// promoted into the permanent layout only once the database row is about to
// be written, so a failed ingestion never leaves a reachable permanent file.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store is a disk-backed file store rooted at a base directory, with separate
// subtrees for documents and covers plus a scratch area for in-flight uploads.
type Store struct {
	tempDir     string
	documentDir string
	coverDir    string
}

// New creates the store and its directory layout.
func New(tempDir, documentDir, coverDir string) (*Store, error) {
	for _, dir := range []string{tempDir, documentDir, coverDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: create %s: %w", dir, err)
		}
	}
	return &Store{tempDir: tempDir, documentDir: documentDir, coverDir: coverDir}, nil
}

// TempDir returns the scratch directory for in-flight uploads.
func (s *Store) TempDir() string { return s.tempDir }

// CoverDir returns the directory generated cover images are written to.
func (s *Store) CoverDir() string { return s.coverDir }

// SaveTemp streams r into a fresh file under the temp directory and returns
// its path and size. The caller owns the file and must Remove it when the
// upload is discarded.
func (s *Store) SaveTemp(r io.Reader) (string, int64, error) {
	f, err := os.CreateTemp(s.tempDir, "upload-*.pdf")
	if err != nil {
		return "", 0, fmt.Errorf("storage: create temp: %w", err)
	}
	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("storage: write temp: %w", err)
	}
	return f.Name(), n, nil
}

// Promote moves a temp file into the permanent document tree under a
// collision-free name derived from the original filename. It returns the
// permanent path.
func (s *Store) Promote(tempPath, originalName string) (string, error) {
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), sanitizeFilename(originalName))
	dest := filepath.Join(s.documentDir, name)

	if err := os.Rename(tempPath, dest); err != nil {
		// Rename fails across filesystems; fall back to copy+delete.
		if copyErr := copyFile(tempPath, dest); copyErr != nil {
			return "", fmt.Errorf("storage: promote %s: %w", tempPath, copyErr)
		}
		os.Remove(tempPath)
	}
	return dest, nil
}

// SaveCover streams r into the cover directory under a collision-free name
// derived from the original filename and returns the stored name (not the
// full path; cover columns hold names relative to CoverDir).
func (s *Store) SaveCover(r io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), sanitizeFilename(originalName))
	dest := filepath.Join(s.coverDir, name)

	out, err := os.Create(dest)
	if err != nil {
		return "", fmt.Errorf("storage: create cover: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		os.Remove(dest)
		return "", fmt.Errorf("storage: write cover: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return "", fmt.Errorf("storage: write cover: %w", err)
	}
	return name, nil
}

// Remove deletes a file best-effort. Missing files are fine; other failures
// are logged and swallowed, since cleanup must never mask the primary error.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("storage: remove failed")
	}
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}

// sanitizeFilename keeps a recognizable tail of the original upload name while
// dropping path separators and control characters.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	if out == "" || out == "." || out == ".." {
		out = "document.pdf"
	}
	return out
}
