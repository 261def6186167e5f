package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/bilmo/backend/internal/domain"
	"github.com/bilmo/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

// ProductSearcher runs the aggregation pipeline for one query.
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string) ([]domain.ProductRecord, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	planner  domain.Planner
	searcher ProductSearcher
	sessions *usecase.SessionStore
}

// NewHandler creates a new HTTP handler
func NewHandler(planner domain.Planner, searcher ProductSearcher, sessions *usecase.SessionStore) *Handler {
	return &Handler{
		planner:  planner,
		searcher: searcher,
		sessions: sessions,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "bilmo-backend",
		"version": "1.0.0",
	})
}

// chatRequest is the inbound chat payload. apiKey optionally overrides
// the configured planner credential for this turn.
type chatRequest struct {
	Message string `json:"message"`
	APIKey  string `json:"apiKey"`
}

// Chat plans the user's query, runs the aggregation for the primary
// product (or the raw message when the plan has no actionable primary)
// and returns plan plus classified results.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"type":    "error",
			"message": "Invalid message",
		})
		return
	}

	sessionID := h.sessions.Begin(req.Message)

	plan, err := h.planner.Plan(c.Request.Context(), req.Message, req.APIKey)
	if err != nil {
		h.sessions.Drop(sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"type":    "error",
			"message": err.Error(),
		})
		return
	}

	// Search the primary product's keywords when the plan is
	// actionable, otherwise fall back to the raw message.
	query := req.Message
	if plan.PrimaryProduct != nil && len(plan.PrimaryProduct.Keywords) > 0 {
		query = usecase.KeywordQuery(plan.PrimaryProduct.Keywords)
	}

	data, err := h.searcher.SearchProducts(c.Request.Context(), query)
	if err != nil {
		h.sessions.Drop(sessionID)
		c.JSON(http.StatusInternalServerError, gin.H{
			"type":    "error",
			"message": err.Error(),
		})
		return
	}
	if data == nil {
		data = []domain.ProductRecord{}
	}

	dealsOrInfo, priced := domain.SplitResults(data)
	if dealsOrInfo == nil {
		dealsOrInfo = []domain.ProductRecord{}
	}
	if priced == nil {
		priced = []domain.ProductRecord{}
	}

	h.sessions.Complete(sessionID, plan, data)

	c.JSON(http.StatusOK, gin.H{
		"type":          "results",
		"plan":          plan,
		"data":          data,
		"deals":         dealsOrInfo,
		"pricedResults": priced,
	})
}

// History returns the session's past chat turns in append order.
func (h *Handler) History(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"history": h.sessions.History(),
	})
}
