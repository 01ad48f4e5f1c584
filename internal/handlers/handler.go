package handlers

import (
	"apiprobe/internal/logger"
	"apiprobe/internal/service"

	_ "apiprobe/docs" // registers the swagger document

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services       *service.Service
	log            *logger.Logger
	allowedOrigins []string
}

// NewHandler constructs a new HTTP handler with dependencies.
// A nil log discards output. All origins are allowed until WithAllowedOrigins is called.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{services: services, log: log, allowedOrigins: []string{anyOrigin}}
}

// WithAllowedOrigins restricts CORS and websocket origins; empty or "*" allows all.
func (h *Handler) WithAllowedOrigins(origins []string) *Handler {
	if len(origins) == 0 {
		origins = []string{anyOrigin}
	}
	h.allowedOrigins = origins
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware, h.accessLogMiddleware, h.corsMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/hi", h.hi)
	router.GET("/health", h.health)

	router.GET("/test-api", h.testAPI)
	router.GET("/logs", h.getLogs)

	// Realtime channel exists only when a hub is wired in.
	if h.services.Fanout != nil {
		router.GET("/ws", h.wsConnect)
	}

	return router
}
