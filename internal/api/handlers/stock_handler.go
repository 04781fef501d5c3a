package handlers

import (
	"net/http"
	"strings"

	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/andresuchdata/stockpulse/internal/stockstatus"
	"github.com/gin-gonic/gin"
)

type StockHandler struct {
	service *service.StockService
}

func NewStockHandler(service *service.StockService) *StockHandler {
	return &StockHandler{service: service}
}

func (h *StockHandler) GetSummary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, summary)
}

// GetAttention lists products needing attention, or every product at ?level=.
func (h *StockHandler) GetAttention(c *gin.Context) {
	var level *stockstatus.Level
	if raw := strings.TrimSpace(c.Query("level")); raw != "" {
		parsed, ok := stockstatus.ParseLevel(raw)
		if !ok {
			respondError(c, http.StatusBadRequest, "level must be one of out, low, good")
			return
		}
		level = &parsed
	}

	items, err := h.service.Attention(c.Request.Context(), level)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"items": items,
		"total": len(items),
	})
}

func (h *StockHandler) GetNotifications(c *gin.Context) {
	notifications, err := h.service.Notifications(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, notifications)
}

func (h *StockHandler) GetProductStatus(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		respondError(c, http.StatusBadRequest, "product id is required")
		return
	}

	status, err := h.service.ProductStatus(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, status)
}
