// Package router wires the document service routes onto a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/docvault/internal/docvault/handler"
	"github.com/kart-io/docvault/pkg/errors"
)

// New builds the gin engine with all service routes registered.
func New(docHandler *handler.DocumentHandler, chatHandler *handler.ChatHandler) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	engine.NoRoute(func(c *gin.Context) {
		e := errors.ErrRouteNotFound
		c.JSON(e.HTTPStatus(), handler.Response{Code: e.Code, Message: e.Message})
	})

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := engine.Group("/v1")
	{
		documents := v1.Group("/documents")
		{
			documents.POST("/upload", docHandler.Upload)
			documents.POST("/search", docHandler.Search)
			documents.GET("", docHandler.List)
			documents.GET("/stats", docHandler.Stats)
			documents.DELETE("/:document_id", docHandler.Delete)
		}

		chat := v1.Group("/chat")
		{
			chat.POST("/message", chatHandler.Message)
			chat.GET("/health", chatHandler.Health)
		}
	}

	logger.Info("HTTP routes registered")
	return engine
}

// requestLogger logs one line per completed request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		c.Next()
		logger.Infow("request completed",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
		)
	}
}
