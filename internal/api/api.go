package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockpulse/internal/api/handlers"
	"github.com/andresuchdata/stockpulse/internal/api/middleware"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	StockService *service.StockService
	ResetService *service.ResetService
	// Location is used to parse request dates; nil means UTC.
	Location *time.Location
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			// A wildcard origin never receives credentials.
			corsConfig.AllowOrigins = nil
			corsConfig.AllowAllOrigins = true
			corsConfig.AllowCredentials = false
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.StockService != nil {
			stockHandler := handlers.NewStockHandler(services.StockService)
			stockGroup := apiGroup.Group("/stock")
			{
				stockGroup.GET("/summary", stockHandler.GetSummary)
				stockGroup.GET("/attention", stockHandler.GetAttention)
				stockGroup.GET("/notifications", stockHandler.GetNotifications)
				stockGroup.GET("/products/:id/status", stockHandler.GetProductStatus)
			}
		}

		if services.ResetService != nil {
			periodHandler := handlers.NewPeriodHandler(services.ResetService, services.Location)
			periodGroup := apiGroup.Group("/periods")
			{
				periodGroup.GET("/current", periodHandler.GetCurrent)
				periodGroup.POST("/resets", periodHandler.PerformReset)
				periodGroup.GET("/resets/last", periodHandler.GetLastReset)

				historyGroup := periodGroup.Group("/history")
				{
					historyGroup.GET("", periodHandler.GetHistory)
					historyGroup.GET("/export", periodHandler.ExportHistory)
					historyGroup.DELETE("/:id", periodHandler.DeleteHistory)
				}
			}
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
