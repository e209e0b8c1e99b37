// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes one in-memory session as a JSON API for the
// browser form. Every handler shares the same session.
package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pdiddy/book-selection/internal/export"
	"github.com/pdiddy/book-selection/internal/selection"
	"github.com/pdiddy/book-selection/internal/session"
	"github.com/pdiddy/book-selection/pkg/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server routes HTTP requests to a Session.
type Server struct {
	session  *session.Session
	layout   export.Layout
	deadline string
	logger   *slog.Logger
}

// New returns a Server. layout is used when an export request names none;
// deadline is added to the form layout's instructions when non-empty.
func New(sess *session.Session, layout export.Layout, deadline string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{session: sess, layout: layout, deadline: deadline, logger: logger}
}

// Router builds the gin engine. allowedOrigins configures CORS; an empty
// list disables cross-origin access.
func (s *Server) Router(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.accessLog())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type"},
			ExposeHeaders:    []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", s.handleHealth)

	api := r.Group("/api")
	{
		api.GET("/status", s.handleStatus)
		api.PUT("/student", s.handleSetStudent)
		api.PUT("/recommendation", s.handleSetRecommendation)
		api.POST("/search", s.handleSearch)
		api.GET("/candidates", s.handleCandidates)
		api.POST("/selection/toggle", s.handleToggle)
		api.GET("/books", s.handleListBooks)
		api.POST("/books", s.handleAddSelected)
		api.POST("/books/manual", s.handleAddManual)
		api.PATCH("/books/:id", s.handleUpdateBook)
		api.DELETE("/books/:id", s.handleRemoveBook)
		api.GET("/export", s.handleExport)
	}
	return r
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot())
}

func (s *Server) handleSetStudent(c *gin.Context) {
	var info types.StudentInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		badRequest(c, err)
		return
	}
	s.session.SetStudent(info)
	c.JSON(http.StatusOK, s.session.Snapshot().Student)
}

type recommendationRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleSetRecommendation(c *gin.Context) {
	var req recommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.session.SetRecommendation(req.Text)
	c.JSON(http.StatusOK, gin.H{"recommendation": req.Text})
}

type searchRequest struct {
	Keyword string `json:"keyword"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	candidates, err := s.session.Search(c.Request.Context(), req.Keyword)
	if errors.Is(err, session.ErrSearchInFlight) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if candidates == nil {
		candidates = []types.Candidate{}
	}
	c.JSON(http.StatusOK, gin.H{
		"candidates": candidates,
		"status":     s.session.Status(),
	})
}

func (s *Server) handleCandidates(c *gin.Context) {
	snap := s.session.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"keyword":    snap.Keyword,
		"candidates": snap.Candidates,
		"selected":   snap.Selected,
		"status":     snap.Status,
		"searching":  snap.Searching,
	})
}

type toggleRequest struct {
	ID string `json:"id" binding:"required"`
}

func (s *Server) handleToggle(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": req.ID, "selected": s.session.Toggle(req.ID)})
}

func (s *Server) handleListBooks(c *gin.Context) {
	snap := s.session.Snapshot()
	invalid := s.session.InvalidISBNs()
	if invalid == nil {
		invalid = []int{}
	}
	c.JSON(http.StatusOK, gin.H{
		"books":         snap.Books,
		"total_price":   snap.TotalPrice,
		"invalid_isbns": invalid,
	})
}

func (s *Server) handleAddSelected(c *gin.Context) {
	added := s.session.AddSelected()
	if added == nil {
		added = []types.BookRecord{}
	}
	c.JSON(http.StatusCreated, gin.H{"added": added})
}

func (s *Server) handleAddManual(c *gin.Context) {
	var rec types.BookRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		badRequest(c, err)
		return
	}
	if rec.Category != "" {
		cat, err := types.ParseCategory(string(rec.Category))
		if err != nil {
			badRequest(c, err)
			return
		}
		rec.Category = cat
	}
	c.JSON(http.StatusCreated, s.session.AddManual(rec))
}

type updateRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

func (s *Server) handleUpdateBook(c *gin.Context) {
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	field, err := selection.ParseField(req.Field)
	if err != nil {
		badRequest(c, err)
		return
	}
	id := c.Param("id")
	if err := s.session.Update(id, field, req.Value); err != nil {
		if errors.Is(err, selection.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		badRequest(c, err)
		return
	}
	for _, b := range s.session.Snapshot().Books {
		if b.ID == id {
			c.JSON(http.StatusOK, b)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": selection.ErrNotFound.Error()})
}

func (s *Server) handleRemoveBook(c *gin.Context) {
	if err := s.session.Remove(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleExport(c *gin.Context) {
	layout := s.layout
	if name := c.Query("layout"); name != "" {
		l, err := export.LayoutByName(name)
		if err != nil {
			badRequest(c, err)
			return
		}
		layout = l
	}
	layout = layout.WithDeadline(s.deadline)

	if err := s.session.CanExport(layout); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	name, err := s.session.Export(&buf, layout)
	if err != nil {
		if errors.Is(err, export.ErrPreconditionUnmet) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		s.logger.Error("export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", contentDisposition(name))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// contentDisposition builds an attachment header with an ASCII fallback
// and the RFC 5987 UTF-8 file name.
func contentDisposition(name string) string {
	return fmt.Sprintf(`attachment; filename="selection-list.xlsx"; filename*=UTF-8''%s`, url.PathEscape(name))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
