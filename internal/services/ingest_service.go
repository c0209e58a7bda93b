package services

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/pdf"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/storage"
)

// Outcome is the terminal status of one file run through the pipeline.
type Outcome string

const (
	OutcomeCreated   Outcome = "created"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeFailed    Outcome = "failed"
)

// Upload is one file handed to the pipeline, with whatever metadata the
// caller declared. Declared fields win over extracted ones.
type Upload struct {
	Filename    string
	Reader      io.Reader
	Title       string
	Description string
	CategoryID  uint
	UserID      uint
	IsPublic    bool
}

// ItemResult describes what the pipeline did with one upload. Document is set
// for created items; Existing points at the prior holder of the fingerprint
// for duplicates. Reason carries the failure message for failed items.
type ItemResult struct {
	Filename string           `json:"filename"`
	Status   Outcome          `json:"status"`
	Document *domain.Document `json:"document,omitempty"`
	Existing *domain.Document `json:"existing,omitempty"`
	Reason   string           `json:"reason,omitempty"`
}

// BatchResult aggregates a multi-file run. Processed counts created items
// only; Duplicates counts both reported and silently-skipped duplicates.
type BatchResult struct {
	Total      int          `json:"total"`
	Processed  int          `json:"processed"`
	Duplicates int          `json:"duplicates"`
	Failed     int          `json:"failed"`
	Results    []ItemResult `json:"results"`
}

// IngestService runs uploads through the full pipeline: temp save,
// fingerprint, duplicate check, metadata extraction, cover generation, slug
// allocation, and the final promote+insert. One file's failure never aborts a
// batch.
type IngestService struct {
	DB        *gorm.DB
	Store     *storage.Store
	Extractor pdf.MetadataExtractor
	Covers    pdf.CoverGenerator
	Slugs     *SlugAllocator
}

// Ingest runs a single upload through the pipeline. skipDuplicates controls
// the duplicate outcome: true discards the file silently (OutcomeSkipped),
// false reports it (OutcomeDuplicate) with the existing document attached.
// Pipeline failures come back inside the result, not as an error; the error
// return is for infrastructure faults only.
func (s *IngestService) Ingest(ctx context.Context, up Upload, skipDuplicates bool) ItemResult {
	res := s.ingestOne(ctx, up, skipDuplicates)
	ingestOutcomes.WithLabelValues(string(res.Status)).Inc()
	return res
}

// IngestBatch processes uploads in order, independently: each file gets its
// own result and counters are tallied at the end.
func (s *IngestService) IngestBatch(ctx context.Context, ups []Upload, skipDuplicates bool) BatchResult {
	out := BatchResult{
		Total:   len(ups),
		Results: make([]ItemResult, 0, len(ups)),
	}
	for _, up := range ups {
		r := s.Ingest(ctx, up, skipDuplicates)
		out.Results = append(out.Results, r)
		switch r.Status {
		case OutcomeCreated:
			out.Processed++
		case OutcomeDuplicate, OutcomeSkipped:
			out.Duplicates++
		case OutcomeFailed:
			out.Failed++
		}
	}
	return out
}

// CheckDuplicate fingerprints the stream and returns the document already
// holding that content, or nil when the content is new.
func (s *IngestService) CheckDuplicate(ctx context.Context, r io.Reader) (string, *domain.Document, error) {
	tmp, _, err := s.Store.SaveTemp(r)
	if err != nil {
		return "", nil, err
	}
	defer s.Store.Remove(tmp)

	hash, err := FingerprintFile(tmp)
	if err != nil {
		return "", nil, err
	}
	existing, err := repo.FindDocumentByHash(ctx, s.DB, hash)
	if errors.Is(err, repo.ErrNotFound) {
		return hash, nil, nil
	}
	if err != nil {
		return "", nil, err
	}
	return hash, existing, nil
}

func (s *IngestService) ingestOne(ctx context.Context, up Upload, skipDuplicates bool) ItemResult {
	res := ItemResult{Filename: up.Filename}
	fail := func(stage string, err error) ItemResult {
		log.Warn().Err(err).Str("filename", up.Filename).Str("stage", stage).
			Msg("ingest: file failed")
		res.Status = OutcomeFailed
		res.Reason = err.Error()
		return res
	}

	tmp, _, err := s.Store.SaveTemp(up.Reader)
	if err != nil {
		return fail("save", err)
	}
	// The temp file is deleted exactly once: here when the pipeline bails
	// out, or implicitly by Promote when the insert goes ahead.
	promoted := false
	defer func() {
		if !promoted {
			s.Store.Remove(tmp)
		}
	}()

	hash, err := FingerprintFile(tmp)
	if err != nil {
		return fail("fingerprint", err)
	}

	existing, err := repo.FindDocumentByHash(ctx, s.DB, hash)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return fail("duplicate-check", err)
	}
	if existing != nil {
		if skipDuplicates {
			res.Status = OutcomeSkipped
			return res
		}
		res.Status = OutcomeDuplicate
		res.Existing = existing
		return res
	}

	title, description, pages := s.resolveMetadata(ctx, tmp, up)

	slug, err := s.Slugs.Allocate(ctx, title)
	if err != nil {
		return fail("slug", err)
	}

	perm, err := s.Store.Promote(tmp, up.Filename)
	if err != nil {
		return fail("promote", err)
	}
	promoted = true

	cover := ""
	if s.Covers != nil {
		name, err := s.Covers.Generate(ctx, perm, s.Store.CoverDir())
		switch {
		case err == nil:
			cover = name
		case errors.Is(err, pdf.ErrUnavailable):
			// No renderer installed; documents just go without covers.
		default:
			log.Warn().Err(err).Str("filename", up.Filename).
				Msg("ingest: cover generation failed")
		}
	}

	doc := &domain.Document{
		Title:       title,
		Slug:        slug,
		Description: description,
		CategoryID:  up.CategoryID,
		UserID:      up.UserID,
		FilePath:    perm,
		FileHash:    hash,
		CoverImage:  cover,
		PageCount:   pages,
		IsPublic:    up.IsPublic,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.insertWithSlugRetry(ctx, doc, title); err != nil {
		s.Store.Remove(perm)
		if cover != "" {
			s.Store.Remove(filepath.Join(s.Store.CoverDir(), cover))
		}
		return fail("insert", err)
	}

	log.Info().Uint("document_id", doc.ID).Str("slug", doc.Slug).
		Str("hash", hash).Msg("ingest: document created")
	res.Status = OutcomeCreated
	res.Document = doc
	return res
}

// resolveMetadata settles title, description, and page count: declared values
// win, extracted ones fill the gaps, and the filename is the title of last
// resort.
func (s *IngestService) resolveMetadata(ctx context.Context, path string, up Upload) (string, string, int) {
	var md pdf.Metadata
	if s.Extractor != nil {
		var err error
		md, err = s.Extractor.Extract(ctx, path)
		if err != nil {
			log.Debug().Err(err).Str("filename", up.Filename).
				Msg("ingest: metadata extraction failed")
			md = pdf.Metadata{}
		}
	}

	title := up.Title
	if title == "" {
		title = md.Title
	}
	if title == "" {
		title = pdf.TitleFromFilename(up.Filename)
	}
	description := up.Description
	if description == "" {
		description = md.Description
	}
	return title, description, md.PageCount
}

// insertWithSlugRetry creates the row, advancing to the next slug candidate
// when a concurrent writer won the unique index race. Any other error, or a
// collision on something that is not the slug, is returned as-is.
func (s *IngestService) insertWithSlugRetry(ctx context.Context, doc *domain.Document, title string) error {
	err := repo.CreateDocument(ctx, s.DB, doc)
	for isDuplicate(err) {
		next, allocErr := s.Slugs.Next(ctx, title, doc.Slug)
		if allocErr != nil {
			return allocErr
		}
		doc.ID = 0
		doc.Slug = next
		err = repo.CreateDocument(ctx, s.DB, doc)
	}
	return err
}
