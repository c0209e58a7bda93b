package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

// SnapshotService serializes the whole dataset to a portable JSON artifact
// and restores it. Import is replace-not-merge: everything currently in the
// store is dropped inside the same transaction that inserts the snapshot
// rows, so the operation is all-or-nothing.
//
// Files on disk are out of scope here: a snapshot carries file paths, not
// file bytes. Moving the upload directory between hosts is an operational
// step alongside the import.
type SnapshotService struct {
	DB *gorm.DB
}

// Export collects every table into a Snapshot. Reads run inside one
// transaction so the artifact is internally consistent.
func (s *SnapshotService) Export(ctx context.Context) (*domain.Snapshot, error) {
	snap := &domain.Snapshot{
		Metadata: domain.SnapshotMetadata{
			Version:    domain.SnapshotVersion,
			ExportedAt: time.Now().UTC(),
			Tables:     domain.SnapshotTables,
		},
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		d := &snap.Data
		for _, dst := range []any{
			&d.Users, &d.Categories, &d.SeoSettings, &d.SiteSettings,
			&d.Documents, &d.DmcaRequests, &d.Ratings, &d.SlugRedirects,
		} {
			if err := tx.Order("id asc").Find(dst).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		snapshotOps.WithLabelValues("export", "error").Inc()
		return nil, err
	}

	snapshotOps.WithLabelValues("export", "ok").Inc()
	return snap, nil
}

// WriteExport streams the snapshot as indented JSON.
func (s *SnapshotService) WriteExport(ctx context.Context, w io.Writer) error {
	snap, err := s.Export(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// ImportCounts reports how many rows an import wrote, per table.
type ImportCounts struct {
	Users         int `json:"users"`
	Categories    int `json:"categories"`
	SeoSettings   int `json:"seo_settings"`
	SiteSettings  int `json:"site_settings"`
	Documents     int `json:"documents"`
	DmcaRequests  int `json:"dmca_requests"`
	Ratings       int `json:"ratings"`
	SlugRedirects int `json:"slug_redirects"`
}

// Import validates the artifact and replaces the dataset with it. Validation
// failures abort before any write; a mid-import failure rolls everything
// back, leaving the prior dataset intact.
func (s *SnapshotService) Import(ctx context.Context, r io.Reader) (*ImportCounts, error) {
	var snap domain.Snapshot
	dec := json.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		snapshotOps.WithLabelValues("import", "invalid").Inc()
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if err := validateSnapshot(&snap); err != nil {
		snapshotOps.WithLabelValues("import", "invalid").Inc()
		return nil, err
	}

	counts := &ImportCounts{
		Users:         len(snap.Data.Users),
		Categories:    len(snap.Data.Categories),
		SeoSettings:   len(snap.Data.SeoSettings),
		SiteSettings:  len(snap.Data.SiteSettings),
		Documents:     len(snap.Data.Documents),
		DmcaRequests:  len(snap.Data.DmcaRequests),
		Ratings:       len(snap.Data.Ratings),
		SlugRedirects: len(snap.Data.SlugRedirects),
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Children before parents, so foreign keys never dangle mid-wipe.
		for _, model := range []any{
			&domain.Rating{}, &domain.DmcaRequest{}, &domain.SlugRedirect{},
			&domain.Document{},
			&domain.Category{}, &domain.User{},
			&domain.SeoSettings{}, &domain.SiteSettings{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}

		// Parents before children, preserving original ids.
		inserts := []struct {
			rows any
			n    int
		}{
			{&snap.Data.Users, counts.Users},
			{&snap.Data.Categories, counts.Categories},
			{&snap.Data.SeoSettings, counts.SeoSettings},
			{&snap.Data.SiteSettings, counts.SiteSettings},
			{&snap.Data.Documents, counts.Documents},
			{&snap.Data.DmcaRequests, counts.DmcaRequests},
			{&snap.Data.Ratings, counts.Ratings},
			{&snap.Data.SlugRedirects, counts.SlugRedirects},
		}
		for _, ins := range inserts {
			if ins.n == 0 {
				continue
			}
			if err := tx.CreateInBatches(ins.rows, 200).Error; err != nil {
				return err
			}
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		snapshotOps.WithLabelValues("import", "error").Inc()
		return nil, err
	}

	snapshotOps.WithLabelValues("import", "ok").Inc()
	log.Info().Int("documents", counts.Documents).Int("users", counts.Users).
		Msg("snapshot: dataset imported")
	return counts, nil
}

// validateSnapshot checks the artifact fail-closed: version must match and
// cross-table references must hold, since the insert order assumes them.
func validateSnapshot(snap *domain.Snapshot) error {
	if snap.Metadata.Version != domain.SnapshotVersion {
		return fmt.Errorf("%w: version %q, want %q",
			ErrInvalidSnapshot, snap.Metadata.Version, domain.SnapshotVersion)
	}

	categories := make(map[uint]bool, len(snap.Data.Categories))
	for _, c := range snap.Data.Categories {
		categories[c.ID] = true
	}
	documents := make(map[uint]bool, len(snap.Data.Documents))
	for _, d := range snap.Data.Documents {
		if !categories[d.CategoryID] {
			return fmt.Errorf("%w: document %d references unknown category %d",
				ErrInvalidSnapshot, d.ID, d.CategoryID)
		}
		documents[d.ID] = true
	}
	for _, r := range snap.Data.Ratings {
		if !documents[r.DocumentID] {
			return fmt.Errorf("%w: rating %d references unknown document %d",
				ErrInvalidSnapshot, r.ID, r.DocumentID)
		}
	}
	for _, r := range snap.Data.DmcaRequests {
		if !documents[r.DocumentID] {
			return fmt.Errorf("%w: takedown %d references unknown document %d",
				ErrInvalidSnapshot, r.ID, r.DocumentID)
		}
	}
	return nil
}
