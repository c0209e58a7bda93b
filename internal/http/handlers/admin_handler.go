// Admin HTTP handlers: stats overview, the full document listing, and the
// rename history. All sit behind the admin token gate.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

// AdminStats is the dashboard overview payload.
type AdminStats struct {
	Documents   int64 `json:"documents"`
	Categories  int64 `json:"categories"`
	PendingDmca int64 `json:"pending_dmca"`
	Views       int64 `json:"views"`
	Downloads   int64 `json:"downloads"`
}

// GetStats godoc
// @ID          getStats
// @Summary     Store statistics overview (admin)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Success     200  {object} handlers.AdminStats
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /admin/stats [get]
func (h *Handlers) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	docs, _, err := repo.DocumentStats(ctx, h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	cats, err := h.Catalog.ListCategories(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	pending, err := repo.CountPendingDmca(ctx, h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	views, downloads, err := repo.CounterTotals(ctx, h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	ok(c, http.StatusOK, AdminStats{
		Documents:   docs,
		Categories:  int64(len(cats)),
		PendingDmca: pending,
		Views:       views,
		Downloads:   downloads,
	})
}

// ListAllDocuments godoc
// @ID          listAllDocuments
// @Summary     List every document, private included (admin)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Success     200  {array} domain.Document
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /admin/documents [get]
func (h *Handlers) ListAllDocuments(c *gin.Context) {
	docs, err := repo.ListAllDocuments(c.Request.Context(), h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, docs)
}

// ListRedirects godoc
// @ID          listRedirects
// @Summary     List the slug rename history (admin)
// @Tags        Admin
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Success     200  {array} domain.SlugRedirect
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /admin/redirects [get]
func (h *Handlers) ListRedirects(c *gin.Context) {
	list, err := repo.ListRedirects(c.Request.Context(), h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, list)
}
