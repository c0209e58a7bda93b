// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns:
// tracing, correlation IDs, logging, panic recovery, metrics, compression,
// CORS, security headers, idempotency, rate limiting, and the admin gate.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger: structured access logs with header masking
//  4. Recovery: capture panics after logger
//  5. Body size limiter (upload cap)
//  6. Metrics
//  7. Gzip (download and metrics routes excluded)
//  8. Idempotency validator (before rate limiter so replays bypass it)
//  9. Rate limiter (per client IP)
//  10. CORS and security headers
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/pdfxandria/go-pdf-backend/docs"
	"github.com/pdfxandria/go-pdf-backend/internal/config"
	"github.com/pdfxandria/go-pdf-backend/internal/http/handlers"
	"github.com/pdfxandria/go-pdf-backend/internal/http/middleware"
	"github.com/pdfxandria/go-pdf-backend/internal/pdf"
	"github.com/pdfxandria/go-pdf-backend/internal/repo"
	"github.com/pdfxandria/go-pdf-backend/internal/search"
	"github.com/pdfxandria/go-pdf-backend/internal/services"
	"github.com/pdfxandria/go-pdf-backend/internal/storage"
)

// RegisterRoutes attaches all middleware and endpoints to the Gin engine and
// returns the constructed handler set (tests use it to reach the services).
func RegisterRoutes(r *gin.Engine, db *gorm.DB, store *storage.Store, cfg config.Config) *handlers.Handlers {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging (admin token and idempotency headers masked)
	r.Use(middleware.Logger())

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body cap: uploads are the largest legitimate payload
	r.Use(limitBody(cfg.Upload.MaxBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Compress JSON responses; stored PDFs are already compressed
	r.Use(gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedPathsRegexs([]string{`.*/file$`, `^/metrics$`})))

	// 8) Idempotency validation for uploads (before rate limiting)
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, uploaderID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetUploadKey(ctx, db, uploaderID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))

	// 9) Token-bucket rate limiter per client IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByClientIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID",
		middleware.HeaderIdempotencyKey, middleware.HeaderAdminToken,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	} else {
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/store
	redirects := &services.RedirectService{
		DB:      db,
		TTL:     cfg.RedirectTTL,
		MaxHops: cfg.RedirectMaxHops,
	}
	docSvc := &services.DocumentService{
		DB:        db,
		Store:     store,
		Redirects: redirects,
		Retention: cfg.RedirectRetention,
	}
	ingestSvc := &services.IngestService{
		DB:        db,
		Store:     store,
		Extractor: pdf.PopplerExtractor{},
		Covers:    pdf.PopplerCover{},
		Slugs:     &services.SlugAllocator{DB: db, MaxAttempts: cfg.SlugMaxAttempts},
	}
	searchSvc := &services.SearchService{DB: db, Index: search.New()}

	h := &handlers.Handlers{
		DB:        db,
		Docs:      docSvc,
		Ingest:    ingestSvc,
		Catalog:   &services.CatalogService{DB: db},
		Dmca:      &services.DmcaService{DB: db},
		Snapshots: &services.SnapshotService{DB: db},
		Search:    searchSvc,
		IdemTTL:   cfg.IdempotencyTTL,
	}

	r.GET("/robots.txt", h.RobotsTxt)

	// Public API
	api := groupWithPrefix(r, cfg.APIBasePath)
	{
		// Documents: reads
		api.GET("/documents", h.ListDocuments)
		api.GET("/documents/recent", h.RecentDocuments)
		api.GET("/documents/popular", h.PopularDocuments)
		api.GET("/documents/slug/:slug", h.GetDocumentBySlug)
		api.GET("/documents/:id", h.GetDocument)
		api.GET("/documents/:id/file", h.DownloadDocument)
		api.POST("/documents/:id/view", h.RegisterView)
		api.GET("/documents/:id/rating", h.GetRatings)
		api.POST("/documents/:id/rating", h.RateDocument)

		// Search
		api.GET("/search", h.SearchDocuments)

		// Categories: reads
		api.GET("/categories", h.ListCategories)
		api.GET("/categories/:id", h.GetCategory)
		api.GET("/categories/:id/documents", h.CategoryDocuments)

		// Settings: reads
		api.GET("/settings/seo", h.GetSeoSettings)
		api.GET("/settings/site", h.GetSiteSettings)

		// DMCA intake is public
		api.POST("/dmca", h.SubmitDmca)
	}

	// Mutating and administrative surface behind the shared token.
	admin := api.Group("", middleware.RequireAdminToken(cfg.AdminToken))
	{
		// Ingestion
		admin.POST("/documents", h.UploadDocument)
		admin.POST("/documents/batch", h.UploadBatch)
		admin.POST("/documents/check-duplicate", h.CheckDuplicate)

		// Document management
		admin.PUT("/documents/:id", h.UpdateDocument)
		admin.PUT("/documents/:id/rename", h.RenameDocument)
		admin.PUT("/documents/:id/cover", h.ReplaceCover)
		admin.DELETE("/documents/:id", h.DeleteDocument)

		// Categories
		admin.POST("/categories", h.CreateCategory)
		admin.PUT("/categories/:id", h.UpdateCategory)
		admin.DELETE("/categories/:id", h.DeleteCategory)

		// Admin views
		admin.GET("/admin/stats", h.GetStats)
		admin.GET("/admin/documents", h.ListAllDocuments)
		admin.GET("/admin/redirects", h.ListRedirects)
		admin.GET("/admin/dmca", h.ListDmca)
		admin.PUT("/admin/dmca/:id", h.ReviewDmca)

		// Settings
		admin.PUT("/admin/settings/seo", h.UpdateSeoSettings)
		admin.PUT("/admin/settings/site", h.UpdateSiteSettings)

		// Snapshot
		admin.GET("/admin/snapshot", h.ExportSnapshot)
		admin.POST("/admin/snapshot", h.ImportSnapshot)
	}

	return h
}

// limitBody caps the request body for all endpoints via http.MaxBytesReader;
// oversized uploads error on read instead of filling the disk.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
