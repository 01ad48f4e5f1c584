package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"apiprobe/internal/codec"
	"apiprobe/internal/logger"
	"apiprobe/internal/models"
	"apiprobe/internal/repository"
)

// ErrInvalidFilter is returned when a filter cannot be compiled.
var ErrInvalidFilter = errors.New("invalid filter")

// QueryService reads the whole log and filters it in memory.
type QueryService struct {
	store repository.LogStore
	log   *logger.Logger
}

func NewQueryService(store repository.LogStore, log *logger.Logger) *QueryService {
	if log == nil {
		log = logger.Nop()
	}
	return &QueryService{store: store, log: log}
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

// normalizeLevel trims spaces and lowercases the level filter.
func normalizeLevel(s string) models.Level {
	return models.Level(strings.ToLower(strings.TrimSpace(s)))
}

// compiledFilter is a Filter with its pattern compiled and bounds normalized.
type compiledFilter struct {
	level    models.Level
	from, to time.Time
	byTime   bool
	pattern  *regexp.Regexp
}

// compileFilter prepares predicates and rejects invalid patterns.
func compileFilter(f Filter) (compiledFilter, error) {
	cf := compiledFilter{
		level: normalizeLevel(f.Level),
		from:  normalizeToUTC(f.From),
		to:    normalizeToUTC(f.To),
	}
	cf.byTime = !cf.from.IsZero() && !cf.to.IsZero()

	if f.Pattern != "" {
		re, err := regexp.Compile("(?i)" + f.Pattern)
		if err != nil {
			return compiledFilter{}, fmt.Errorf("%w: pattern: %v", ErrInvalidFilter, err)
		}
		cf.pattern = re
	}
	return cf, nil
}

// match applies level, then time range, then pattern.
func (cf compiledFilter) match(rec models.Record, line []byte) bool {
	if cf.level != "" && rec.Level != cf.level {
		return false
	}
	if cf.byTime && (rec.Timestamp.Before(cf.from) || rec.Timestamp.After(cf.to)) {
		return false
	}
	if cf.pattern != nil && !cf.pattern.Match(line) {
		return false
	}
	return true
}

// Query returns the records matching f in creation order.
// Lines that fail to decode are skipped and reported in the result.
func (s *QueryService) Query(ctx context.Context, f Filter) (QueryResult, error) {
	cf, err := compileFilter(f)
	if err != nil {
		return QueryResult{}, err
	}

	lines, err := s.store.ReadAll(ctx)
	if err != nil {
		return QueryResult{}, err
	}

	res := QueryResult{Records: make([]models.Record, 0, len(lines))}
	for i, line := range lines {
		rec, err := codec.Decode(line)
		if err != nil {
			res.Skipped = append(res.Skipped, SkippedLine{Position: i + 1, Reason: err.Error(), Err: err})
			s.log.Warnw("record_skipped", "position", i+1, "err", err)
			continue
		}
		if cf.match(rec, line) {
			res.Records = append(res.Records, rec)
		}
	}
	return res, nil
}
