package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/csheth/pdfask/internal/server/handler"
	"github.com/csheth/pdfask/internal/server/middleware"
	"github.com/csheth/pdfask/internal/session"
)

// New wires the page, form and signal routes onto a fresh engine.
func New(store *session.Store, h *handler.Handler, allowOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	if len(allowOrigins) > 0 {
		r.Use(cors.New(corsConfig(allowOrigins)))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	web := r.Group("/", middleware.WithSession(store))
	web.GET("/", h.Page)
	web.POST("/upload", h.Upload)
	web.POST("/ask", h.Ask)
	r.POST("/reset", h.Reset)

	api := r.Group("/api/v1", middleware.WithSession(store))
	{
		api.POST("/signal", h.Signal)
	}

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = origins
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	cfg.AllowCredentials = true
	return cfg
}
