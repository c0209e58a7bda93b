// Package domain defines the persistence models for the document repository:
// users, categories, documents, slug redirects, ratings, DMCA takedown
// requests, and the singleton settings rows. These types are mapped with GORM
// and form the core data layer of the application.
package domain

import "time"

// User is an account able to own documents. Authentication itself lives
// outside this service; the row exists so ownership and the dataset snapshot
// have something to reference.
type User struct {
	ID           uint      `json:"id"            gorm:"primaryKey"`
	Username     string    `json:"username"      gorm:"type:varchar(64);not null;uniqueIndex"`
	PasswordHash string    `json:"password_hash,omitempty" gorm:"type:varchar(255);not null"`
	IsAdmin      bool      `json:"is_admin"      gorm:"not null;default:false"`
	IsBlocked    bool      `json:"is_blocked"    gorm:"not null;default:false"`
	AvatarPath   string    `json:"avatar_path,omitempty" gorm:"type:varchar(512)"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Category groups documents for browsing. Its slug is unique and referenced
// by Document via CategoryID.
type Category struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	Name      string    `json:"name"       gorm:"type:varchar(128);not null"`
	Slug      string    `json:"slug"       gorm:"type:varchar(160);not null;uniqueIndex"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Category.
func (Category) TableName() string { return "categories" }

// Document is a stored PDF plus its curated metadata.
//
// Identity is the store-assigned numeric ID together with the slug, which is
// unique among current documents (unique index; the slug allocator retries on
// insert-time violations). FileHash is advisory-unique: ingestion checks it
// before committing, but the store does not enforce it, so two documents may
// legally share a hash when the duplicate check is bypassed.
//
// The document exclusively owns FilePath and CoverImage on disk; deleting the
// row must delete both files.
type Document struct {
	ID          uint      `json:"id"          gorm:"primaryKey"`
	Title       string    `json:"title"       gorm:"type:varchar(255);not null"`
	Slug        string    `json:"slug"        gorm:"type:varchar(300);not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CategoryID  uint      `json:"category_id" gorm:"not null;index"`
	UserID      uint      `json:"user_id"     gorm:"not null;index"`
	FilePath    string    `json:"file_path"   gorm:"type:varchar(512);not null"`
	FileHash    string    `json:"file_hash"   gorm:"type:char(32);index"`
	CoverImage  string    `json:"cover_image,omitempty" gorm:"type:varchar(255)"`
	PageCount   int       `json:"page_count"  gorm:"not null;default:0"`
	IsPublic    bool      `json:"is_public"   gorm:"not null;default:true"`
	Views       int64     `json:"views"       gorm:"not null;default:0"`
	Downloads   int64     `json:"downloads"   gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Category Category `json:"-" gorm:"foreignKey:CategoryID;references:ID"`
}

// TableName returns the database table name for Document.
func (Document) TableName() string { return "documents" }

// SlugRedirect records one historical rename: requests for OldSlug should
// land on NewSlug. Renames may chain (a NewSlug later becomes an OldSlug),
// so resolution follows the mapping iteratively. One row per retired slug;
// retiring the same slug again repoints the row at the newest target.
type SlugRedirect struct {
	ID            uint       `json:"id"             gorm:"primaryKey"`
	OldSlug       string     `json:"old_slug"       gorm:"type:varchar(300);not null;uniqueIndex"`
	NewSlug       string     `json:"new_slug"       gorm:"type:varchar(300);not null;index"`
	DocumentID    uint       `json:"document_id"    gorm:"not null;index"`
	CreatedAt     time.Time  `json:"created_at"`
	RedirectUntil *time.Time `json:"redirect_until,omitempty"`
}

// TableName returns the database table name for SlugRedirect.
func (SlugRedirect) TableName() string { return "slug_redirects" }

// Rating is a thumbs-up/down on a document. Identity is the authenticated
// user when available, otherwise the client network address; one rating per
// (document, identity) is enforced by the unique index on (document_id,
// rater), with UserID kept for attribution.
type Rating struct {
	ID         uint      `json:"id"          gorm:"primaryKey"`
	DocumentID uint      `json:"document_id" gorm:"not null;index;uniqueIndex:ux_rating_document_rater"`
	Rater      string    `json:"rater"       gorm:"type:varchar(64);not null;uniqueIndex:ux_rating_document_rater"`
	UserID     *uint     `json:"user_id,omitempty"`
	IsPositive bool      `json:"is_positive" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Document Document `json:"-" gorm:"foreignKey:DocumentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Rating.
func (Rating) TableName() string { return "ratings" }

// DMCA request statuses. Pending is the only non-terminal state.
const (
	DmcaStatusPending  = "pending"
	DmcaStatusApproved = "approved"
	DmcaStatusRejected = "rejected"
)

// DmcaRequest is a free-standing takedown complaint referencing a document.
type DmcaRequest struct {
	ID             uint      `json:"id"              gorm:"primaryKey"`
	DocumentID     uint      `json:"document_id"     gorm:"not null;index"`
	RequesterName  string    `json:"requester_name"  gorm:"type:varchar(128);not null"`
	RequesterEmail string    `json:"requester_email" gorm:"type:varchar(255);not null"`
	Reason         string    `json:"reason"          gorm:"type:text;not null"`
	Status         string    `json:"status"          gorm:"type:varchar(16);not null;default:'pending';check:status IN ('pending','approved','rejected')"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName returns the database table name for DmcaRequest.
func (DmcaRequest) TableName() string { return "dmca_requests" }

// SeoSettings is a singleton row (id 1) of search-engine metadata. Rendering
// of sitemaps/robots from it happens elsewhere; this service only stores it.
type SeoSettings struct {
	ID                 uint      `json:"id"                  gorm:"primaryKey"`
	SiteTitle          string    `json:"site_title"          gorm:"type:varchar(255)"`
	SiteDescription    string    `json:"site_description"    gorm:"type:text"`
	Keywords           string    `json:"keywords"            gorm:"type:text"`
	RobotsTxt          string    `json:"robots_txt"          gorm:"type:text"`
	GoogleVerification string    `json:"google_verification" gorm:"type:varchar(255)"`
	BingVerification   string    `json:"bing_verification"   gorm:"type:varchar(255)"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName returns the database table name for SeoSettings.
func (SeoSettings) TableName() string { return "seo_settings" }

// SiteSettings is a singleton row (id 1) of site-wide presentation settings.
type SiteSettings struct {
	ID              uint      `json:"id"               gorm:"primaryKey"`
	SiteName        string    `json:"site_name"        gorm:"type:varchar(128)"`
	Tagline         string    `json:"tagline"          gorm:"type:varchar(255)"`
	MaintenanceMode bool      `json:"maintenance_mode" gorm:"not null;default:false"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for SiteSettings.
func (SiteSettings) TableName() string { return "site_settings" }

// UploadKey is a consumed Idempotency-Key for ingestion endpoints. A key is
// unique per uploader and expires after the configured TTL; replaying a live
// key is rejected before the upload is processed.
type UploadKey struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	UploadID  string    `json:"upload_id"  gorm:"type:varchar(64);not null;uniqueIndex:ux_upload_keys"`
	Key       string    `json:"key"        gorm:"type:varchar(200);not null;uniqueIndex:ux_upload_keys"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at" gorm:"index"`
}

// TableName returns the database table name for UploadKey.
func (UploadKey) TableName() string { return "upload_keys" }
