package handlers

import (
	"errors"
	"net/http"

	"github.com/andresuchdata/stockpulse/internal/repository"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// respondServiceError maps service and repository errors onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}
	respondError(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidPeriodType), errors.Is(err, service.ErrInvalidRange):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrDuplicateArchive):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
