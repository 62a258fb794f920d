package http

import (
	"github.com/gin-gonic/gin"

	"github.com/mpavlovs/attachd/internal/attachment"
	"github.com/mpavlovs/attachd/internal/logging"
	"github.com/mpavlovs/attachd/internal/server/http/handler"
	"github.com/mpavlovs/attachd/internal/server/repositories/attachments"
)

// NewRouter wires the HTTP surface. Reads are public; mutations require a
// bearer token signed with secretKey.
func NewRouter(repo attachments.Repository, manager *attachment.Manager, secretKey []byte, logger logging.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	healthHandler := handler.NewHealthHandler()
	attachmentHandler := handler.NewAttachmentHandler(repo, manager, logger)

	router.GET("/healthz", healthHandler.Health)

	api := router.Group("/api/attachments")
	{
		api.GET("", attachmentHandler.List)
		api.GET("/:id", attachmentHandler.Get)
		api.GET("/:id/content", attachmentHandler.GetContent)
	}

	protected := router.Group("/api/attachments")
	protected.Use(AuthMiddleware(secretKey))
	{
		protected.POST("", attachmentHandler.Upload)
		protected.DELETE("/:id", attachmentHandler.Delete)
	}

	return router
}
