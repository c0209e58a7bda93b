// Settings HTTP handlers: the singleton SEO and site settings rows, plus the
// rendered robots.txt. Reads are public; writes sit behind the admin gate.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pdfxandria/go-pdf-backend/internal/domain"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
)

// GetSeoSettings godoc
// @ID          getSeoSettings
// @Summary     Get SEO settings
// @Tags        Settings
// @Produce     json
// @Success     200  {object} domain.SeoSettings
// @Router      /settings/seo [get]
func (h *Handlers) GetSeoSettings(c *gin.Context) {
	s, err := repo.GetSeoSettings(c.Request.Context(), h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, s)
}

// UpdateSeoSettings godoc
// @ID          updateSeoSettings
// @Summary     Update SEO settings (admin)
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Param       body  body  domain.SeoSettings  true "Settings"
// @Success     200  {object} domain.SeoSettings
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /admin/settings/seo [put]
func (h *Handlers) UpdateSeoSettings(c *gin.Context) {
	var s domain.SeoSettings
	if err := c.ShouldBindJSON(&s); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := repo.UpsertSeoSettings(c.Request.Context(), h.DB, &s); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, s)
}

// GetSiteSettings godoc
// @ID          getSiteSettings
// @Summary     Get site settings
// @Tags        Settings
// @Produce     json
// @Success     200  {object} domain.SiteSettings
// @Router      /settings/site [get]
func (h *Handlers) GetSiteSettings(c *gin.Context) {
	s, err := repo.GetSiteSettings(c.Request.Context(), h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, s)
}

// UpdateSiteSettings godoc
// @ID          updateSiteSettings
// @Summary     Update site settings (admin)
// @Tags        Settings
// @Accept      json
// @Produce     json
// @Param       X-Admin-Token  header  string  true "Admin token"
// @Param       body  body  domain.SiteSettings  true "Settings"
// @Success     200  {object} domain.SiteSettings
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Router      /admin/settings/site [put]
func (h *Handlers) UpdateSiteSettings(c *gin.Context) {
	var s domain.SiteSettings
	if err := c.ShouldBindJSON(&s); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := repo.UpsertSiteSettings(c.Request.Context(), h.DB, &s); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, s)
}

// RobotsTxt godoc
// @ID          robotsTxt
// @Summary     Rendered robots.txt from SEO settings
// @Tags        Settings
// @Produce     plain
// @Success     200  {string} string
// @Router      /robots.txt [get]
func (h *Handlers) RobotsTxt(c *gin.Context) {
	s, err := repo.GetSeoSettings(c.Request.Context(), h.DB)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	body := strings.TrimSpace(s.RobotsTxt)
	if body == "" {
		body = "User-agent: *\nAllow: /"
	}
	c.String(http.StatusOK, body+"\n")
}
