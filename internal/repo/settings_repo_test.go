package repo

import (
	"context"
	"testing"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
)

func TestGetSeoSettings_ZeroValueWhenUnset(t *testing.T) {
	db := newRepoDB(t, &domain.SeoSettings{})

	s, err := GetSeoSettings(context.Background(), db)
	if err != nil {
		t.Fatalf("GetSeoSettings: %v", err)
	}
	if s.ID != 1 || s.SiteTitle != "" {
		t.Fatalf("expected empty singleton, got %+v", s)
	}
}

func TestUpsertSeoSettings_CreateThenUpdate(t *testing.T) {
	db := newRepoDB(t, &domain.SeoSettings{})
	ctx := context.Background()

	if err := UpsertSeoSettings(ctx, db, &domain.SeoSettings{SiteTitle: "First"}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := UpsertSeoSettings(ctx, db, &domain.SeoSettings{SiteTitle: "Second"}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	s, err := GetSeoSettings(ctx, db)
	if err != nil {
		t.Fatalf("GetSeoSettings: %v", err)
	}
	if s.SiteTitle != "Second" {
		t.Fatalf("upsert should overwrite in place, got %q", s.SiteTitle)
	}

	var n int64
	db.Model(&domain.SeoSettings{}).Count(&n)
	if n != 1 {
		t.Fatalf("singleton table should hold one row, has %d", n)
	}
}

func TestUpsertSiteSettings_RoundTrip(t *testing.T) {
	db := newRepoDB(t, &domain.SiteSettings{})
	ctx := context.Background()

	in := &domain.SiteSettings{SiteName: "Library", Tagline: "read things", MaintenanceMode: true}
	if err := UpsertSiteSettings(ctx, db, in); err != nil {
		t.Fatalf("UpsertSiteSettings: %v", err)
	}

	s, err := GetSiteSettings(ctx, db)
	if err != nil {
		t.Fatalf("GetSiteSettings: %v", err)
	}
	if s.SiteName != "Library" || !s.MaintenanceMode {
		t.Fatalf("round-trip mismatch: %+v", s)
	}
}
