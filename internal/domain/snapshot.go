package domain

import "time"

// SnapshotVersion is the format tag written by exports and required on import.
const SnapshotVersion = "1.0"

// SnapshotMetadata identifies a snapshot artifact: format version, when the
// export happened, and the table names included, in export order.
type SnapshotMetadata struct {
	Version    string    `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Tables     []string  `json:"tables"`
}

// SnapshotData carries the full row set of every core table, grouped by
// table. Field order mirrors foreign-key dependency order: tables listed
// earlier never reference tables listed later.
type SnapshotData struct {
	Users         []User         `json:"users"`
	Categories    []Category     `json:"categories"`
	SeoSettings   []SeoSettings  `json:"seo_settings"`
	SiteSettings  []SiteSettings `json:"site_settings"`
	Documents     []Document     `json:"documents"`
	DmcaRequests  []DmcaRequest  `json:"dmca_requests"`
	Ratings       []Rating       `json:"ratings"`
	SlugRedirects []SlugRedirect `json:"slug_redirects"`
}

// Snapshot is the portable, versioned serialization of the whole dataset.
type Snapshot struct {
	Metadata SnapshotMetadata `json:"metadata"`
	Data     SnapshotData     `json:"data"`
}

// SnapshotTables lists the table names included in a snapshot, in export
// order (dependency-first).
var SnapshotTables = []string{
	"users", "categories", "seo_settings", "site_settings",
	"documents", "dmca_requests", "ratings", "slug_redirects",
}
