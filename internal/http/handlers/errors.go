// Package handlers defines the HTTP-layer error codes used across endpoints.
//
// Codes are lowercase snake_case and stable: clients branch on them, so they
// never change meaning. Generic codes mirror HTTP status semantics; the
// domain-specific ones carry outcomes a status alone cannot (an upload that
// duplicates existing content, a slug that is already taken, a snapshot that
// failed validation).
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeDuplicateContent = "duplicate_content"
	ErrCodeSlugTaken        = "slug_taken"
	ErrCodeCategoryInUse    = "category_in_use"
	ErrCodeInvalidSnapshot  = "invalid_snapshot"
	ErrCodeIngestFailed     = "ingest_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
