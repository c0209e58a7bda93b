// Category HTTP handlers.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdfxandria/go-pdf-backend/internal/services"
)

// CategoryRequest is the JSON payload for creating or updating a category.
// Slug is optional; when empty it is derived from the name.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=128"`
	Slug string `json:"slug"`
}

// ListCategories godoc
// @ID          listCategories
// @Summary     List categories
// @Tags        Categories
// @Produce     json
// @Success     200  {array} domain.Category
// @Router      /categories [get]
func (h *Handlers) ListCategories(c *gin.Context) {
	cats, err := h.Catalog.ListCategories(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, cats)
}

// GetCategory godoc
// @ID          getCategory
// @Summary     Get a category by id
// @Tags        Categories
// @Produce     json
// @Param       id  path  int  true "Category ID"
// @Success     200  {object} domain.Category
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /categories/{id} [get]
func (h *Handlers) GetCategory(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	cat, err := h.Catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, cat)
}

// CategoryDocuments godoc
// @ID          categoryDocuments
// @Summary     List a category's documents
// @Tags        Categories
// @Produce     json
// @Param       id  path  int  true "Category ID"
// @Success     200  {array} domain.Document
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Router      /categories/{id}/documents [get]
func (h *Handlers) CategoryDocuments(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	docs, err := h.Docs.ByCategory(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrCategoryNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, docs)
}

// CreateCategory godoc
// @ID          createCategory
// @Summary     Create a category
// @Tags        Categories
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CategoryRequest  true "Category"
// @Success     201  {object} domain.Category
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Slug taken"
// @Router      /categories [post]
func (h *Handlers) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1-128 chars)")
		return
	}

	cat, err := h.Catalog.CreateCategory(c.Request.Context(), strings.TrimSpace(req.Name), strings.TrimSpace(req.Slug))
	if err != nil {
		if errors.Is(err, services.ErrSlugInUse) {
			fail(c, http.StatusConflict, ErrCodeSlugTaken, "category slug already in use")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusCreated, cat)
}

// UpdateCategory godoc
// @ID          updateCategory
// @Summary     Rename a category
// @Tags        Categories
// @Accept      json
// @Produce     json
// @Param       id    path  int  true "Category ID"
// @Param       body  body  handlers.CategoryRequest  true "New name and optional slug"
// @Success     200  {object} domain.Category
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     409  {object} handlers.ErrorResponse "Slug taken"
// @Router      /categories/{id} [put]
func (h *Handlers) UpdateCategory(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required (1-128 chars)")
		return
	}

	cat, err := h.Catalog.UpdateCategory(c.Request.Context(), id, strings.TrimSpace(req.Name), strings.TrimSpace(req.Slug))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
		case errors.Is(err, services.ErrSlugInUse):
			fail(c, http.StatusConflict, ErrCodeSlugTaken, "category slug already in use")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, cat)
}

// DeleteCategory godoc
// @ID          deleteCategory
// @Summary     Delete an empty category
// @Description A category still referenced by documents answers 409.
// @Tags        Categories
// @Param       id  path  int  true "Category ID"
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Not found"
// @Failure     409  {object} handlers.ErrorResponse "Category in use"
// @Router      /categories/{id} [delete]
func (h *Handlers) DeleteCategory(c *gin.Context) {
	id, okID := pathID(c)
	if !okID {
		return
	}
	if err := h.Catalog.DeleteCategory(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, services.ErrCategoryNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "category not found")
		case errors.Is(err, services.ErrCategoryInUse):
			fail(c, http.StatusConflict, ErrCodeCategoryInUse, "category still has documents")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}
