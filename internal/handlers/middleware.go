package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	headerRequestID      = "X-Request-ID"
	headerSkippedRecords = "X-Skipped-Records"
	ctxKeyRequestID      = "requestId"
	anyOrigin            = "*"
)

// requestIDMiddleware reuses the caller's X-Request-ID or generates one.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(headerRequestID))
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(ctxKeyRequestID, id)
	c.Header(headerRequestID, id)
	c.Next()
}

// accessLogMiddleware writes one structured line per request.
func (h *Handler) accessLogMiddleware(c *gin.Context) {
	start := time.Now()
	c.Next()

	h.log.Infow("http_request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", c.Writer.Status(),
		"latency", time.Since(start),
		"request_id", c.GetString(ctxKeyRequestID),
		"user_agent", c.Request.UserAgent(),
	)
}

// corsMiddleware sets CORS headers for allowed origins and answers preflight requests.
func (h *Handler) corsMiddleware(c *gin.Context) {
	if allowed := h.allowOrigin(c.GetHeader("Origin")); allowed != "" {
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, "+headerRequestID)
		c.Header("Access-Control-Expose-Headers", headerRequestID+", "+headerSkippedRecords)
		if allowed != anyOrigin {
			c.Header("Vary", "Origin")
		}
	}

	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}
	c.Next()
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or "" when not allowed.
func (h *Handler) allowOrigin(origin string) string {
	for _, o := range h.allowedOrigins {
		if o == anyOrigin {
			return anyOrigin
		}
		if origin != "" && strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
