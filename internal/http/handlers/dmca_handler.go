// DMCA takedown HTTP handlers.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdfxandria/go-pdf-backend/internal/services"
)

// DmcaSubmitRequest is the JSON payload for filing a takedown complaint.
type DmcaSubmitRequest struct {
	DocumentID uint   `json:"document_id" binding:"required"`
	Name       string `json:"name" binding:"required,min=1,max=128"`
	Email      string `json:"email" binding:"required,email"`
	Reason     string `json:"reason" binding:"required,min=1"`
}

// DmcaReviewRequest is the JSON payload for reviewing a complaint.
type DmcaReviewRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

// SubmitDmca godoc
// @ID          submitDmca
// @Summary     File a takedown complaint
// @Tags        DMCA
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.DmcaSubmitRequest  true "Complaint"
// @Success     201  {object} domain.DmcaRequest
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Document not found"
// @Router      /dmca [post]
func (h *Handlers) SubmitDmca(c *gin.Context) {
	var req DmcaSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "document_id, name, email, and reason are required")
		return
	}

	r, err := h.Dmca.Submit(c.Request.Context(), req.DocumentID,
		strings.TrimSpace(req.Name), strings.TrimSpace(req.Email), strings.TrimSpace(req.Reason))
	if err != nil {
		if errors.Is(err, services.ErrDocumentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "document not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, r)
}

// ListDmca godoc
// @ID          listDmca
// @Summary     List takedown complaints (admin)
// @Tags        DMCA
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Success     200  {array} domain.DmcaRequest
// @Failure     401  {object} handlers.ErrorResponse "Unauthorized"
// @Router      /admin/dmca [get]
func (h *Handlers) ListDmca(c *gin.Context) {
	list, err := h.Dmca.List(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, list)
}

// ReviewDmca godoc
// @ID          reviewDmca
// @Summary     Approve or reject a pending complaint (admin)
// @Description Only pending complaints can be reviewed; approved and rejected are terminal.
// @Tags        DMCA
// @Accept      json
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Param       id    path  int  true "Complaint ID"
// @Param       body  body  handlers.DmcaReviewRequest  true "Verdict"
// @Success     200  {object} domain.DmcaRequest
// @Failure     400  {object} handlers.ErrorResponse "Invalid status or transition"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /admin/dmca/{id} [put]
func (h *Handlers) ReviewDmca(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req DmcaReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `status must be "approved" or "rejected"`)
		return
	}

	r, err := h.Dmca.Review(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDmcaNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "takedown request not found")
		case errors.Is(err, services.ErrInvalidDmcaStatus):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "complaint is not pending or status is invalid")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, r)
}
