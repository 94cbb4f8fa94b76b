package routes

import (
	"net/http"

	"github.com/damoang/angple-moderation/internal/handler"
	"github.com/damoang/angple-moderation/internal/middleware"
	"github.com/damoang/angple-moderation/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	moderationHandler *handler.ModerationHandler,
	jwtManager *jwt.Manager,
) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v2")

	// Moderation (ADMIN / OPERATOR)
	moderation := api.Group("/moderation", middleware.JWTAuth(jwtManager), middleware.RequireModerator())
	moderation.POST("/decisions", moderationHandler.Decide)
	moderation.GET("/cases", moderationHandler.FindCase)
	moderation.GET("/cases/:id", moderationHandler.GetCase)
	moderation.GET("/cases/:id/history", moderationHandler.History)
}
