package handlers

import (
	"errors"
	"net/http"
	"strings"

	"apiprobe/internal/service"

	"github.com/gin-gonic/gin"
)

// Response messages kept byte-compatible with existing frontends.
const (
	statusOK = "ok"

	errURLRequired = "API URL is required"
	errTestingAPI  = "Error testing API"
	errLoadLogs    = "failed to load logs"
	helloMessage   = "Hello from API"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString(ctxKeyRequestID)}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// @Summary      Liveness check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /hi [get]
func (h *Handler) hi(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": helloMessage})
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Probe a third-party API
// @Description  Issues one GET to url, records the outcome in the log and returns the upstream status code.
// @Tags         probe
// @Produce      json
// @Param        url  query     string  true  "Target URL"  example(https://dog.ceo/api/breeds/image/random)
// @Success      200  {object}  map[string]int
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /test-api [get]
func (h *Handler) testAPI(c *gin.Context) {
	target := strings.TrimSpace(c.Query("url"))
	if target == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errURLRequired})
		return
	}

	rec, err := h.services.Probe(c.Request.Context(), target, service.CallerMeta{
		UserAgent: strings.ToValidUTF8(c.Request.UserAgent(), "\uFFFD"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidTarget) {
			c.JSON(http.StatusBadRequest, gin.H{"error": errURLRequired})
			return
		}
		// Cause stays in the server log; callers only see the generic message.
		h.logAndJSONError(c, http.StatusInternalServerError, errTestingAPI, "test_api_failed", err, "url", target)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": rec.Status})
}
