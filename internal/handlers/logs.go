package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"apiprobe/internal/models"
	"apiprobe/internal/service"
	"apiprobe/internal/timeparse"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid  = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid    = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errRangeInvalid = "'from' must be <= 'to'"
)

// @Summary      List logs
// @Description  Returns recorded probe outcomes in creation order. Without parameters every record is returned.
// @Description  'from' and 'to' only take effect together; a date-only 'to' is treated as end-of-day inclusive.
// @Tags         logs
// @Produce      json
// @Param        level    query  string  false  "Record level"  Enums(success,error,info)
// @Param        from     query  string  false  "Start of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-01)
// @Param        to       query  string  false  "End of range (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD')"  example(2025-08-31)
// @Param        pattern  query  string  false  "Case-insensitive regular expression over the stored record"  example(dog)
// @Success      200  {array}   models.Record
// @Header       200  {integer}  X-Skipped-Records  "Stored lines that could not be decoded"
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	ctx := c.Request.Context()
	var (
		from time.Time
		to   time.Time
		err  error
	)
	// Parse 'from' (optional)
	if qs := c.Query("from"); qs != "" {
		from, err = timeparse.RangeBound(qs, false)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	// Parse 'to' (optional). If only a date is provided, make it end-of-day inclusive.
	if qs := c.Query("to"); qs != "" {
		to, err = timeparse.RangeBound(qs, true)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": errRangeInvalid})
		return
	}

	f := service.Filter{
		Level:   c.Query("level"),
		From:    from,
		To:      to,
		Pattern: c.Query("pattern"),
	}
	res, err := h.services.Query(ctx, f)
	if err != nil {
		if errors.Is(err, service.ErrInvalidFilter) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLogs, "logs_list_failed", err,
			"level", f.Level, "from", from, "to", to, "pattern", f.Pattern)
		return
	}

	if n := len(res.Skipped); n > 0 {
		h.log.Warnw("logs_skipped_records", "count", n, "request_id", c.GetString(ctxKeyRequestID))
	}
	c.Header(headerSkippedRecords, strconv.Itoa(len(res.Skipped)))

	records := res.Records
	if records == nil {
		records = []models.Record{}
	}
	c.JSON(http.StatusOK, records)
}
