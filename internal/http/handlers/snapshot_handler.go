// Dataset snapshot HTTP handlers (admin only).
//
// Export streams the whole dataset as a versioned JSON artifact suitable for
// backup or migration; import replaces the dataset with such an artifact in a
// single transaction.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pdfxandria/go-pdf-backend/internal/http/middleware"
	"github.com/pdfxandria/go-pdf-backend/internal/services"
)

// ExportSnapshot godoc
// @ID          exportSnapshot
// @Summary     Export the full dataset (admin)
// @Description Streams a versioned JSON snapshot of every table, served as a download.
// @Tags        Snapshot
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Success     200  {object} domain.Snapshot
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /admin/snapshot [get]
func (h *Handlers) ExportSnapshot(c *gin.Context) {
	filename := fmt.Sprintf("snapshot-%s.json", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Content-Type", "application/json")
	c.Status(http.StatusOK)

	if err := h.Snapshots.WriteExport(c.Request.Context(), c.Writer); err != nil {
		// Headers are gone at this point; log and cut the stream.
		middleware.LoggerFrom(c).Error().Err(err).Msg("snapshot export failed mid-stream")
		c.Abort()
	}
}

// ImportSnapshot godoc
// @ID          importSnapshot
// @Summary     Replace the dataset from a snapshot (admin)
// @Description Validates the artifact fail-closed, then swaps the entire dataset in one transaction. A failed import leaves the prior dataset intact.
// @Tags        Snapshot
// @Accept      json
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Param       body  body  domain.Snapshot  true "Snapshot artifact"
// @Success     200  {object} services.ImportCounts
// @Failure     400  {object} handlers.ErrorResponse "Invalid snapshot"
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /admin/snapshot [post]
func (h *Handlers) ImportSnapshot(c *gin.Context) {
	counts, err := h.Snapshots.Import(c.Request.Context(), c.Request.Body)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSnapshot) {
			fail(c, http.StatusBadRequest, ErrCodeInvalidSnapshot, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}

	h.rebuildSearch(c)
	ok(c, http.StatusOK, counts)
}
