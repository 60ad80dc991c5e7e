package server

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/amishk599/jobquery/internal/model"
)

// Searcher runs one search and always returns an envelope.
type Searcher interface {
	Run(ctx context.Context, q string) model.Envelope
}

// Options configures the HTTP boundary.
type Options struct {
	AuthToken   string   // empty disables bearer auth on search routes
	CORSOrigins []string // "*" allows every origin; empty disables CORS
}

// Handler serves the search API.
type Handler struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewRouter builds the gin engine with recovery, request ids, logging, CORS
// and bearer auth, and registers the v1 routes.
func NewRouter(searcher Searcher, opts Options, logger *slog.Logger) *gin.Engine {
	h := &Handler{searcher: searcher, logger: logger}

	r := gin.New()
	r.Use(recovery(logger), requestID(), requestLogger(logger))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(opts.CORSOrigins)))
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", h.Health)

		search := api.Group("/search")
		search.Use(bearerAuth(opts.AuthToken))
		search.GET("/jobs", h.SearchGET)
		search.POST("/jobs", h.SearchPOST)
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader}
	return cfg
}

// Health is GET /api/v1/health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type searchRequest struct {
	Query string `json:"query"`
}

// SearchGET is GET /api/v1/search/jobs?query=...
func (h *Handler) SearchGET(c *gin.Context) {
	h.search(c, c.Query("query"))
}

// SearchPOST is POST /api/v1/search/jobs with {"query": "..."}.
func (h *Handler) SearchPOST(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, missingQuery("Invalid JSON body."))
		return
	}
	h.search(c, req.Query)
}

func (h *Handler) search(c *gin.Context, q string) {
	q = strings.TrimSpace(q)
	if q == "" {
		c.JSON(http.StatusBadRequest, missingQuery("Missing required parameter: query."))
		return
	}
	env := h.searcher.Run(c.Request.Context(), q)
	c.JSON(statusFor(env), env)
}

func missingQuery(msg string) model.Envelope {
	return model.Envelope{
		Status:      model.StatusError,
		Message:     msg,
		ParsedQuery: model.ExtractionFailure("empty query"),
		Failure:     model.FailureExtraction,
	}
}

// statusFor maps an envelope onto its HTTP status code.
func statusFor(env model.Envelope) int {
	switch env.Failure {
	case model.FailureNone:
		return http.StatusOK
	case model.FailureExtraction:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
