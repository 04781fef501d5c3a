package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/export"
	"github.com/andresuchdata/stockpulse/internal/period"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxHistoryLimit = 500

type PeriodHandler struct {
	service  *service.ResetService
	location *time.Location
}

// NewPeriodHandler parses request dates in loc.
func NewPeriodHandler(service *service.ResetService, loc *time.Location) *PeriodHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &PeriodHandler{service: service, location: loc}
}

type resetRequest struct {
	PeriodType string `json:"period_type" binding:"required"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

func (h *PeriodHandler) GetCurrent(c *gin.Context) {
	respondOK(c, http.StatusOK, h.service.CurrentPeriod())
}

func (h *PeriodHandler) PerformReset(c *gin.Context) {
	var body resetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	req := service.ArchiveRequest{PeriodType: domain.PeriodType(body.PeriodType)}

	var err error
	if req.Start, err = h.parseOptionalDate(body.StartDate); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid start_date: %s", body.StartDate))
		return
	}
	if req.End, err = h.parseOptionalDate(body.EndDate); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("invalid end_date: %s", body.EndDate))
		return
	}

	result, err := h.service.PerformReset(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, result)
}

func (h *PeriodHandler) GetLastReset(c *gin.Context) {
	rec, err := h.service.LastReset(c.Request.Context(), domain.PeriodType(c.Query("type")))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, rec)
}

func (h *PeriodHandler) GetHistory(c *gin.Context) {
	filter, ok := h.parseHistoryFilter(c)
	if !ok {
		return
	}

	records, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, records)
}

func (h *PeriodHandler) DeleteHistory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid history id")
		return
	}

	if err := h.service.UndoPeriodReset(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"id": id})
}

func (h *PeriodHandler) ExportHistory(c *gin.Context) {
	filter, ok := h.parseHistoryFilter(c)
	if !ok {
		return
	}

	records, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	payload, err := export.HistoryXLSX(records)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("period-history-%s.xlsx", time.Now().In(h.location).Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, payload)
}

func (h *PeriodHandler) parseHistoryFilter(c *gin.Context) (domain.PeriodHistoryFilter, bool) {
	filter := domain.PeriodHistoryFilter{PeriodType: domain.PeriodType(strings.TrimSpace(c.Query("type")))}

	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			respondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return filter, false
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}
		filter.Limit = limit
	}

	return filter, true
}

func (h *PeriodHandler) parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := period.ParseDate(value, h.location)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
