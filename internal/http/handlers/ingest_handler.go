// Ingestion HTTP handlers.
//
// This file exposes the upload endpoints: single-file, batch, and the
// duplicate pre-check. Uploads are multipart/form-data; metadata fields ride
// alongside the file parts. A consumed Idempotency-Key makes a retried upload
// answer 409 instead of re-running the pipeline.
package handlers

import (
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdfxandria/go-pdf-backend/internal/http/middleware"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/services"
	"github.com/pdfxandria/go-pdf-backend/internal/sysutil"
	"github.com/pdfxandria/go-pdf-backend/internal/utils"
)

// CheckDuplicateResponse reports whether uploaded content already exists.
type CheckDuplicateResponse struct {
	Hash      string `json:"hash"`
	Duplicate bool   `json:"duplicate"`
	Existing  any    `json:"existing,omitempty"`
}

// uploadFromForm builds a pipeline Upload from one multipart file plus the
// shared form fields.
func uploadFromForm(c *gin.Context, fh *multipart.FileHeader, categoryID uint) (services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, err
	}
	return services.Upload{
		Filename:    fh.Filename,
		Reader:      f,
		Title:       strings.TrimSpace(c.PostForm("title")),
		Description: strings.TrimSpace(c.PostForm("description")),
		CategoryID:  categoryID,
		IsPublic:    !sysutil.IsTruthy(c.PostForm("private")),
	}, nil
}

// consumeIdempotencyKey records the key after a successful upload so replays
// are rejected. Best-effort: a failed write only loses replay protection.
func (h *Handlers) consumeIdempotencyKey(c *gin.Context) {
	key, present := middleware.GetIdempotencyKey(c)
	if !present {
		return
	}
	ttl := h.IdemTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	uploader := middleware.UploaderID(c)
	if err := repo.PutUploadKey(c.Request.Context(), h.DB, uploader, key, time.Now().UTC(), ttl); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency key record failed")
	}
}

// rejectReplay answers a replayed Idempotency-Key. Returns true when the
// request was handled.
func rejectReplay(c *gin.Context) bool {
	if !middleware.IsReplay(c) {
		return false
	}
	fail(c, http.StatusConflict, ErrCodeConflict, "this Idempotency-Key was already used for an upload")
	return true
}

// categoryFromForm validates the required category_id field.
func (h *Handlers) categoryFromForm(c *gin.Context) (uint, bool) {
	id, ok := utils.ParseUint(c.PostForm("category_id"))
	if !ok {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category_id form field is required")
		return 0, false
	}
	if _, err := h.Catalog.GetCategory(c.Request.Context(), id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "category does not exist")
		return 0, false
	}
	return id, true
}

// UploadDocument godoc
// @ID          uploadDocument
// @Summary     Upload one PDF
// @Description Runs the file through the ingestion pipeline. Duplicate content answers 409 with the existing document.
// @Tags        Ingestion
// @Accept      multipart/form-data
// @Produce     json
// @Param       Idempotency-Key  header  string  false "Upload idempotency key"
// @Param       file         formData  file    true  "PDF file"
// @Param       category_id  formData  int     true  "Category ID"
// @Param       title        formData  string  false "Declared title (wins over extracted)"
// @Param       description  formData  string  false "Declared description"
// @Param       private      formData  bool    false "Hide from public listings"
// @Success     201  {object} services.ItemResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Duplicate content or replayed key"
// @Failure     422  {object} handlers.ErrorResponse "Pipeline failure"
// @Router      /documents [post]
func (h *Handlers) UploadDocument(c *gin.Context) {
	if rejectReplay(c) {
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file form field is required")
		return
	}
	categoryID, okCat := h.categoryFromForm(c)
	if !okCat {
		return
	}

	up, err := uploadFromForm(c, fh, categoryID)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read uploaded file")
		return
	}
	defer up.Reader.(multipart.File).Close()

	res := h.Ingest.Ingest(c.Request.Context(), up, false)
	switch res.Status {
	case services.OutcomeCreated:
		h.consumeIdempotencyKey(c)
		h.rebuildSearch(c)
		ok(c, http.StatusCreated, res)
	case services.OutcomeDuplicate:
		c.JSON(http.StatusConflict, res)
	default:
		c.JSON(http.StatusUnprocessableEntity, res)
	}
}

// UploadBatch godoc
// @ID          uploadBatch
// @Summary     Upload multiple PDFs
// @Description Each file is processed independently; one failure never aborts the batch. skip_duplicates discards duplicate content silently.
// @Tags        Ingestion
// @Accept      multipart/form-data
// @Produce     json
// @Param       Idempotency-Key  header  string  false "Upload idempotency key"
// @Param       files            formData  file  true  "PDF files (repeatable)"
// @Param       category_id      formData  int   true  "Category ID"
// @Param       skip_duplicates  formData  bool  false "Silently discard duplicates"
// @Success     200  {object} services.BatchResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Replayed key"
// @Router      /documents/batch [post]
func (h *Handlers) UploadBatch(c *gin.Context) {
	if rejectReplay(c) {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "multipart form required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "at least one file is required")
		return
	}
	categoryID, okCat := h.categoryFromForm(c)
	if !okCat {
		return
	}
	skipDuplicates := sysutil.IsTruthy(c.PostForm("skip_duplicates"))

	ups := make([]services.Upload, 0, len(files))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, fh := range files {
		up, err := uploadFromForm(c, fh, categoryID)
		if err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read uploaded file "+fh.Filename)
			return
		}
		opened = append(opened, up.Reader.(multipart.File))
		ups = append(ups, up)
	}

	res := h.Ingest.IngestBatch(c.Request.Context(), ups, skipDuplicates)
	if res.Processed > 0 {
		h.consumeIdempotencyKey(c)
		h.rebuildSearch(c)
	}
	ok(c, http.StatusOK, res)
}

// CheckDuplicate godoc
// @ID          checkDuplicate
// @Summary     Check whether content already exists
// @Description Fingerprints the file without storing it and reports the current holder, if any.
// @Tags        Ingestion
// @Accept      multipart/form-data
// @Produce     json
// @Param       file  formData  file  true "PDF file"
// @Success     200  {object} handlers.CheckDuplicateResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /documents/check-duplicate [post]
func (h *Handlers) CheckDuplicate(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file form field is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "could not read uploaded file")
		return
	}
	defer f.Close()

	hash, existing, err := h.Ingest.CheckDuplicate(c.Request.Context(), f)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	resp := CheckDuplicateResponse{Hash: hash, Duplicate: existing != nil}
	if existing != nil {
		resp.Existing = existing
	}
	ok(c, http.StatusOK, resp)
}

// rebuildSearch refreshes the in-memory index after writes. Failure is logged
// only; search serves the previous state until the next rebuild.
func (h *Handlers) rebuildSearch(c *gin.Context) {
	if h.Search == nil {
		return
	}
	if err := h.Search.Rebuild(c.Request.Context()); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("search index rebuild failed")
	}
}
