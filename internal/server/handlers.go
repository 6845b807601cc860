package server

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ngenohkevin/storcat-agent/config"
	"github.com/ngenohkevin/storcat-agent/internal/catalog"
	"github.com/ngenohkevin/storcat-agent/internal/files"
	"github.com/ngenohkevin/storcat-agent/internal/logging"
	"github.com/ngenohkevin/storcat-agent/internal/search"
	"github.com/ngenohkevin/storcat-agent/internal/store"
	"github.com/ngenohkevin/storcat-agent/internal/volume"
)

// progressBuffer bounds how many unsent progress names a streaming create may queue
const progressBuffer = 256

// Handlers holds all HTTP handlers
type Handlers struct {
	cfg     *config.Config
	store   *store.Store
	engine  *search.Engine
	guard   *files.Guard
	volumes *volume.Inspector
	started time.Time
}

// NewHandlers creates a new handlers instance
func NewHandlers(cfg *config.Config) *Handlers {
	volumes := volume.NewInspector(cfg.InfoCacheTTL)

	return &Handlers{
		cfg:     cfg,
		store:   store.New(volumes),
		engine:  search.NewEngine(cfg.SearchWorkers),
		guard:   files.NewGuard(cfg.AllowedPaths),
		volumes: volumes,
		started: time.Now(),
	}
}

// Close releases background resources
func (h *Handlers) Close() error {
	h.volumes.Close()
	return nil
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"version":   Version,
	})
}

// GetInfo handles GET /api/info
func (h *Handlers) GetInfo(c *gin.Context) {
	hostInfo, err := h.volumes.Host()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"hostname":      hostInfo.Hostname,
		"os":            hostInfo.OS,
		"platform":      hostInfo.Platform,
		"kernel":        hostInfo.KernelVersion,
		"arch":          hostInfo.KernelArch,
		"uptime":        hostInfo.UptimeHuman,
		"agent_version": Version,
		"go_version":    runtime.Version(),
		"agent_uptime":  time.Since(h.started).Round(time.Second).String(),
		"catalog_dir":   h.cfg.CatalogDir,
		"allowed_paths": h.guard.GetAllowedPaths(),
		"open_access":   h.cfg.OpenAccess,
	})
}

// CreateCatalog handles POST /api/catalogs
func (h *Handlers) CreateCatalog(c *gin.Context) {
	req, ok := h.bindCreateRequest(c)
	if !ok {
		return
	}

	result, err := h.store.Create(c.Request.Context(), req, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// StreamCreateCatalog handles POST /api/catalogs/stream (SSE progress)
func (h *Handlers) StreamCreateCatalog(c *gin.Context) {
	req, ok := h.bindCreateRequest(c)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	progress := make(chan string, progressBuffer)
	type outcome struct {
		result *store.CreateResult
		err    error
	}
	done := make(chan outcome, 1)

	go func() {
		result, err := h.store.Create(ctx, req, func(name string) {
			// Progress is advisory; a slow client drops names rather than stalling the walk
			select {
			case progress <- name:
			default:
			}
		})
		done <- outcome{result: result, err: err}
	}()

	c.Stream(func(w io.Writer) bool {
		select {
		case name := <-progress:
			c.SSEvent("progress", name)
			return true
		case out := <-done:
			if out.err != nil {
				c.SSEvent("error", gin.H{"error": out.err.Error()})
			} else {
				c.SSEvent("result", out.result)
			}
			return false
		case <-ctx.Done():
			return false
		}
	})
}

// ListCatalogs handles GET /api/catalogs
func (h *Handlers) ListCatalogs(c *gin.Context) {
	dir, ok := h.resolve(c, h.cfg.ResolveCatalogDir(c.Query("dir")))
	if !ok {
		return
	}

	catalogs, err := h.store.ListCatalogs(c.Request.Context(), dir)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"directory": dir,
		"catalogs":  catalogs,
	})
}

// LoadCatalog handles GET /api/catalogs/document
func (h *Handlers) LoadCatalog(c *gin.Context) {
	path, ok := h.resolve(c, c.Query("path"))
	if !ok {
		return
	}

	doc, err := catalog.LoadDocument(path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"path":    path,
		"shape":   doc.Shape.String(),
		"catalog": doc.Root,
	})
}

// GetRenderedPath handles GET /api/catalogs/rendered-path
func (h *Handlers) GetRenderedPath(c *gin.Context) {
	path, ok := h.resolve(c, c.Query("path"))
	if !ok {
		return
	}

	htmlPath, err := store.ResolveRenderedPath(path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": htmlPath})
}

// GetRendered handles GET /api/catalogs/rendered
func (h *Handlers) GetRendered(c *gin.Context) {
	path, ok := h.resolve(c, c.Query("path"))
	if !ok {
		return
	}

	content, err := store.ReadRendered(path)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(content))
}

// Search handles GET /api/search
func (h *Handlers) Search(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "term is required"})
		return
	}

	dir, ok := h.resolve(c, h.cfg.ResolveCatalogDir(c.Query("dir")))
	if !ok {
		return
	}

	results, err := h.engine.Search(c.Request.Context(), term, dir)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"term":      term,
		"directory": dir,
		"count":     len(results),
		"results":   results,
	})
}

// bindCreateRequest decodes and validates a create body and checks every path it names
func (h *Handlers) bindCreateRequest(c *gin.Context) (store.CreateRequest, bool) {
	var req store.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return req, false
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}

	var ok bool
	if req.DirectoryPath, ok = h.resolve(c, req.DirectoryPath); !ok {
		return req, false
	}
	if req.OutputDirectory != "" {
		if req.OutputDirectory, ok = h.resolve(c, req.OutputDirectory); !ok {
			return req, false
		}
	}
	if req.CopyToDirectory != "" {
		if req.CopyToDirectory, ok = h.resolve(c, req.CopyToDirectory); !ok {
			return req, false
		}
	}

	return req, true
}

// resolve makes path absolute and enforces the allowed-path list, writing the error response on failure
func (h *Handlers) resolve(c *gin.Context, path string) (string, bool) {
	abs, err := h.guard.Resolve(path)
	if err != nil {
		if errors.Is(err, files.ErrAccessDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		} else {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return "", false
	}
	return abs, true
}

// respondError maps catalog errors to status codes
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.WithContext(c.Request.Context()).Error("request failed", zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	var ioErr *catalog.IOError
	switch {
	case errors.Is(err, files.ErrAccessDenied):
		return http.StatusForbidden
	case catalog.IsNotFound(err):
		return http.StatusNotFound
	case catalog.IsParse(err):
		return http.StatusUnprocessableEntity
	case errors.As(err, &ioErr) && errors.Is(ioErr.Err, fs.ErrNotExist):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
