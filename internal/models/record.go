package models

import (
	"encoding/json"
	"time"
)

// Level is the coarse outcome category of a probe.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// MethodGet is the only verb probes use.
const MethodGet = "GET"

// statusCategories is closed: anything not listed maps to LevelInfo.
var statusCategories = map[int]Level{
	200: LevelSuccess,
	201: LevelSuccess,
	204: LevelSuccess,
	400: LevelError,
	401: LevelError,
	403: LevelError,
	404: LevelError,
	500: LevelError,
}

// LevelForStatus maps an HTTP status code to its Level.
func LevelForStatus(code int) Level {
	if lvl, ok := statusCategories[code]; ok {
		return lvl
	}
	return LevelInfo
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	switch l {
	case LevelSuccess, LevelError, LevelInfo:
		return true
	}
	return false
}

// Record is a single probe outcome as stored in the log.
type Record struct {
	Timestamp   time.Time       `json:"timestamp"`
	Level       Level           `json:"level"`            // success | error | info
	Method      string          `json:"method,omitempty"` // GET
	URL         string          `json:"url"`
	Status      int             `json:"status,omitempty"` // set only when the request completed
	UserAgent   string          `json:"userAgent,omitempty"`
	RequestSent bool            `json:"requestSent"`
	Result      json.RawMessage `json:"result,omitempty"`    // response payload
	Truncated   bool            `json:"truncated,omitempty"` // body exceeded the size limit; result holds the prefix as a string
	Error       string          `json:"error,omitempty"`     // failure description
}
