// Package api wires the market HTTP handlers into a gin router.
package api

import (
	"net/http"

	"consensus-market/internal/api/handlers"
	"consensus-market/internal/api/middleware"
	"consensus-market/internal/api/models"

	"github.com/gin-gonic/gin"
)

// NewRouter builds the router. Callers choose the gin mode beforehand.
func NewRouter(h *handlers.MarketHandler, corsOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.CORS(corsOrigins))
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/markets", h.CreateMarket)
		api.GET("/markets/:id", h.GetMarket)
		api.DELETE("/markets/:id", h.DeleteMarket)
		api.POST("/markets/:id/participants", h.AddParticipant)
		api.GET("/markets/:id/clear", h.Clear)
		api.POST("/markets/:id/sweep", h.Sweep)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "NOT_FOUND", Message: "Not found"},
		})
	})

	return router
}
