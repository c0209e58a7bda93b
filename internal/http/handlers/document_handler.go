// Document HTTP handlers.
//
// This file exposes REST endpoints for reading, editing, renaming, rating,
// and deleting documents, plus file download and the fuzzy search endpoint.
// Handlers are transport-thin: they validate input, call the services, and
// translate results (including slug redirects and conditional responses)
// into HTTP.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/http/middleware"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/services"
	"github.com/pdfxandria/go-pdf-backend/internal/utils"
)

// Handlers groups the HTTP endpoints and the services they delegate to.
type Handlers struct {
	DB        *gorm.DB
	Docs      *services.DocumentService
	Ingest    *services.IngestService
	Catalog   *services.CatalogService
	Dmca      *services.DmcaService
	Snapshots *services.SnapshotService
	Search    *services.SearchService

	// IdemTTL is how long a consumed upload Idempotency-Key stays live.
	IdemTTL time.Duration
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListDocumentsResponse wraps a page of documents and pagination information.
type ListDocumentsResponse struct {
	Documents  []domain.Document `json:"documents"`
	Pagination Pagination        `json:"pagination"`
}

// pathID parses the :id parameter, failing the request on garbage.
func pathID(c *gin.Context) (uint, bool) {
	id, ok := utils.ParseUint(c.Param("id"))
	if !ok {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "id must be a positive integer")
	}
	return id, ok
}

// ListDocuments godoc
// @ID          listDocuments
// @Summary     List documents (paginated)
// @Description Returns a page of documents, newest first. Supports weak ETag via If-None-Match.
// @Tags        Documents
// @Produce     json
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object} handlers.ListDocumentsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /documents [get]
func (h *Handlers) ListDocuments(c *gin.Context) {
	ctx := c.Request.Context()
	page := utils.AtoiDefault(c.Query("page"), 1)
	pageSize := utils.AtoiDefault(c.Query("page_size"), 20)

	// ETag pre-check (best effort): count + latest update identify the state.
	if count, maxTS, err := repo.DocumentStats(ctx, h.DB); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.Unix()
		}
		etag := fmt.Sprintf(`W/"documents:%d:%d"`, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	pg, err := h.Docs.List(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	ok(c, http.StatusOK, ListDocumentsResponse{
		Documents: pg.Items,
		Pagination: Pagination{
			Page:       pg.Page,
			PageSize:   pg.PerPage,
			Total:      pg.Total,
			TotalPages: pg.TotalPages,
			HasNext:    pg.Page < pg.TotalPages,
		},
	})
}

// GetDocument godoc
// @ID          getDocument
// @Summary     Get a document by id
// @Tags        Documents
// @Produce     json
// @Param       id  path  int  true "Document ID"
// @Success     200  {object} domain.Document
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /documents/{id} [get]
func (h *Handlers) GetDocument(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	doc, err := h.Docs.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, doc)
}

// GetDocumentBySlug godoc
// @ID          getDocumentBySlug
// @Summary     Get a document by slug, following rename redirects
// @Description A retired slug answers 301 with the canonical location; the live slug answers the document.
// @Tags        Documents
// @Produce     json
// @Param       slug  path  string  true "Document slug"
// @Success     200  {object} domain.Document
// @Success     301  {string} string "Moved Permanently"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /documents/slug/{slug} [get]
func (h *Handlers) GetDocumentBySlug(c *gin.Context) {
	slug := c.Param("slug")
	doc, finalSlug, err := h.Docs.GetBySlug(c.Request.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	if finalSlug != slug {
		location := strings.Replace(c.Request.URL.Path, "/"+slug, "/"+finalSlug, 1)
		c.Redirect(http.StatusMovedPermanently, location)
		return
	}
	ok(c, http.StatusOK, doc)
}

// RecentDocuments godoc
// @ID          recentDocuments
// @Summary     List the newest public documents
// @Tags        Documents
// @Produce     json
// @Param       limit  query  int  false "Max results" minimum(1) maximum(50) default(10)
// @Success     200  {array} domain.Document
// @Router      /documents/recent [get]
func (h *Handlers) RecentDocuments(c *gin.Context) {
	docs, err := h.Docs.Recent(c.Request.Context(), utils.AtoiDefault(c.Query("limit"), 10))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, docs)
}

// PopularDocuments godoc
// @ID          popularDocuments
// @Summary     List the most viewed public documents
// @Tags        Documents
// @Produce     json
// @Param       limit  query  int  false "Max results" minimum(1) maximum(50) default(10)
// @Success     200  {array} domain.Document
// @Router      /documents/popular [get]
func (h *Handlers) PopularDocuments(c *gin.Context) {
	docs, err := h.Docs.Popular(c.Request.Context(), utils.AtoiDefault(c.Query("limit"), 10))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, docs)
}

// DownloadDocument godoc
// @ID          downloadDocument
// @Summary     Download the PDF file
// @Description Streams the stored file and bumps the download counter.
// @Tags        Documents
// @Produce     application/pdf
// @Param       id  path  int  true "Document ID"
// @Success     200  {file} file
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /documents/{id}/file [get]
func (h *Handlers) DownloadDocument(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	doc, err := h.Docs.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	// Counter bumps are best-effort; a failed increment never blocks the file.
	if err := h.Docs.RegisterDownload(c.Request.Context(), id); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Uint("document_id", id).
			Msg("download counter increment failed")
	}

	c.FileAttachment(doc.FilePath, doc.Slug+".pdf")
}

// RegisterView godoc
// @ID          registerView
// @Summary     Record one view of a document
// @Tags        Documents
// @Param       id  path  int  true "Document ID"
// @Success     204  {string} string "No Content"
// @Router      /documents/{id}/view [post]
func (h *Handlers) RegisterView(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.Docs.RegisterView(c.Request.Context(), id); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// UpdateDocumentRequest is the JSON payload for metadata edits. Absent fields
// stay untouched.
type UpdateDocumentRequest struct {
	Description *string `json:"description"`
	CategoryID  *uint   `json:"category_id"`
	IsPublic    *bool   `json:"is_public"`
}

// UpdateDocument godoc
// @ID          updateDocument
// @Summary     Edit document metadata
// @Description Updates description, category, or visibility. Slug changes go through rename.
// @Tags        Documents
// @Accept      json
// @Produce     json
// @Param       id    path  int  true "Document ID"
// @Param       body  body  handlers.UpdateDocumentRequest  true "Fields to update"
// @Success     200  {object} domain.Document
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /documents/{id} [put]
func (h *Handlers) UpdateDocument(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	doc, err := h.Docs.UpdateMetadata(c.Request.Context(), id, services.MetadataUpdate{
		Description: req.Description,
		CategoryID:  req.CategoryID,
		IsPublic:    req.IsPublic,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
		case errors.Is(err, services.ErrCategoryNotFound):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category does not exist")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, doc)
}

// RenameDocumentRequest is the JSON payload for renames. Slug is optional;
// when empty it is derived from the title.
type RenameDocumentRequest struct {
	Title string `json:"title" binding:"required,min=1,max=255"`
	Slug  string `json:"slug"`
}

// RenameDocument godoc
// @ID          renameDocument
// @Summary     Rename a document
// @Description Changes title and slug; the old slug keeps redirecting for the retention window.
// @Tags        Documents
// @Accept      json
// @Produce     json
// @Param       id    path  int  true "Document ID"
// @Param       body  body  handlers.RenameDocumentRequest  true "New title and optional slug"
// @Success     200  {object} domain.Document
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     409  {object} handlers.ErrorResponse "Slug taken"
// @Router      /documents/{id}/rename [put]
func (h *Handlers) RenameDocument(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req RenameDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required (1-255 chars)")
		return
	}

	doc, err := h.Docs.Rename(c.Request.Context(), id, strings.TrimSpace(req.Title), strings.TrimSpace(req.Slug))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDocumentNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
		case errors.Is(err, services.ErrSlugInUse):
			fail(c, http.StatusConflict, ErrCodeSlugTaken, "slug already in use")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	h.rebuildSearch(c)
	ok(c, http.StatusOK, doc)
}

// ReplaceCover godoc
// @ID          replaceCover
// @Summary     Replace a document's cover image
// @Description Stores the uploaded image as the new cover and deletes the previous file.
// @Tags        Documents
// @Accept      multipart/form-data
// @Produce     json
// @Param       id     path      int   true "Document ID"
// @Param       cover  formData  file  true "Cover image"
// @Success     200  {object} domain.Document
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /documents/{id}/cover [put]
func (h *Handlers) ReplaceCover(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	fh, err := c.FormFile("cover")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "cover form field is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read uploaded file")
		return
	}
	defer f.Close()

	doc, err := h.Docs.ReplaceCover(c.Request.Context(), id, f, fh.Filename)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, doc)
}

// DeleteDocument godoc
// @ID          deleteDocument
// @Summary     Permanently delete a document
// @Description Removes the row, its ratings and takedown records, and the files on disk.
// @Tags        Documents
// @Param       id  path  int  true "Document ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /documents/{id} [delete]
func (h *Handlers) DeleteDocument(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.Docs.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	h.rebuildSearch(c)
	noContent(c)
}

// RateDocumentRequest is the JSON payload for a thumb vote.
type RateDocumentRequest struct {
	Positive *bool `json:"positive" binding:"required"`
}

// RateDocument godoc
// @ID          rateDocument
// @Summary     Rate a document up or down
// @Description One vote per identity (user header or client IP); re-voting flips the existing vote.
// @Tags        Documents
// @Accept      json
// @Produce     json
// @Param       X-User-ID  header  string  false "User ID"
// @Param       id    path  int  true "Document ID"
// @Param       body  body  handlers.RateDocumentRequest  true "Vote"
// @Success     200  {object} services.RatingSummary
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /documents/{id}/rating [post]
func (h *Handlers) RateDocument(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req RateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Positive == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `body must carry "positive": true|false`)
		return
	}

	rater := middleware.UploaderID(c)
	summary, err := h.Docs.Rate(c.Request.Context(), id, rater, nil, *req.Positive)
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, summary)
}

// GetRatings godoc
// @ID          getRatings
// @Summary     Get a document's vote tallies
// @Tags        Documents
// @Produce     json
// @Param       id  path  int  true "Document ID"
// @Success     200  {object} services.RatingSummary
// @Router      /documents/{id}/rating [get]
func (h *Handlers) GetRatings(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	summary, err := h.Docs.Ratings(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, summary)
}

// SearchDocuments godoc
// @ID          searchDocuments
// @Summary     Fuzzy-search public documents
// @Tags        Search
// @Produce     json
// @Param       q      query  string  true  "Query text"
// @Param       limit  query  int     false "Max results" minimum(1) maximum(50) default(20)
// @Success     200  {array} domain.Document
// @Failure     400  {object} handlers.ErrorResponse "Missing query"
// @Router      /search [get]
func (h *Handlers) SearchDocuments(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "query parameter q is required")
		return
	}
	docs, err := h.Search.Search(c.Request.Context(), q, utils.AtoiDefault(c.Query("limit"), 20))
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, docs)
}
