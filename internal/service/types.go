package service

import (
	"net/http"
	"time"

	"apiprobe/internal/models"
)

// CallerMeta is what the boundary layer knows about whoever asked for a probe.
type CallerMeta struct {
	UserAgent string
}

// ProbeOptions tunes the outbound HTTP call.
type ProbeOptions struct {
	Timeout      time.Duration // transport-level timeout; zero means defaultProbeTimeout
	MaxBodyBytes int64         // response bytes kept as the record result
	MaxInFlight  int64         // concurrent probes
	UserAgent    string        // sent to the target
	Client       *http.Client  // optional; built from Timeout when nil
}

// Filter narrows a query. Zero values disable the corresponding predicate.
type Filter struct {
	Level   string    // exact level match after trimming/lowercasing
	From    time.Time // inclusive; only applied together with To
	To      time.Time // inclusive; only applied together with From
	Pattern string    // case-insensitive regular expression over the stored line
}

// SkippedLine describes a stored line the codec could not decode.
type SkippedLine struct {
	Position int    `json:"position"` // 1-based among non-blank stored lines
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}

// QueryResult holds the matching records in creation order plus any skipped lines.
type QueryResult struct {
	Records []models.Record
	Skipped []SkippedLine
}
