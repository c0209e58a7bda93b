// Package services defines the business logic for documents, ingestion,
// slugs/redirects, categories, ratings, takedown requests, and dataset
// snapshots. This file centralizes common service-level error values so that
// they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer. Note that a detected duplicate upload is NOT represented here: it is
// an expected alternate outcome carried by ItemResult, not an error.
package services

import "errors"

var (
	// ErrDocumentNotFound indicates that the requested document does not
	// exist (neither as a live slug nor via redirect history, when resolved).
	ErrDocumentNotFound = errors.New("document not found")

	// ErrCategoryNotFound indicates that the referenced category does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrCategoryInUse is returned when deleting a category that documents
	// still reference.
	ErrCategoryInUse = errors.New("category still referenced by documents")

	// ErrSlugInUse is returned when a rename targets a slug already held by a
	// different live document. No state is mutated in that case.
	ErrSlugInUse = errors.New("slug already in use")

	// ErrSlugExhausted is returned when the allocator ran out of
	// disambiguation attempts without finding a free slug.
	ErrSlugExhausted = errors.New("could not allocate a unique slug")

	// ErrRedirectNotFound indicates the requested slug appears nowhere in the
	// rename history (the caller should then try it as a live slug).
	ErrRedirectNotFound = errors.New("no redirect recorded for slug")

	// ErrDmcaNotFound indicates that the takedown request does not exist.
	ErrDmcaNotFound = errors.New("takedown request not found")

	// ErrInvalidDmcaStatus is returned for a status outside the allowed enum
	// or a transition out of a terminal state.
	ErrInvalidDmcaStatus = errors.New("invalid takedown status")

	// ErrInvalidSnapshot is returned when an import artifact fails shape or
	// version validation. The store is untouched in that case.
	ErrInvalidSnapshot = errors.New("invalid snapshot document")
)
