package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"apiprobe/internal/codec"
	"apiprobe/internal/logger"
	"apiprobe/internal/models"
	"apiprobe/internal/repository"

	"golang.org/x/sync/semaphore"
)

const (
	defaultProbeTimeout   = 30 * time.Second
	defaultMaxBodyBytes   = 1 << 20 // 1 MB
	defaultMaxInFlight    = 32
	defaultProbeUserAgent = "apiprobe/1.0"
)

// Domain errors for probe flows.
var (
	ErrInvalidTarget = errors.New("API URL is required")
	ErrProbeFailed   = errors.New("probe failed")
)

// Notifier receives every appended record line.
type Notifier interface {
	Notify(line []byte)
}

// ProbeService performs outbound checks and appends one record per call.
type ProbeService struct {
	store     repository.LogStore
	notifier  Notifier
	client    *http.Client
	sem       *semaphore.Weighted
	maxBody   int64
	userAgent string
	now       func() time.Time
	log       *logger.Logger
}

// NewProbeService builds a prober; notifier may be nil.
func NewProbeService(store repository.LogStore, notifier Notifier, opts ProbeOptions, log *logger.Logger) *ProbeService {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultProbeTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = defaultMaxInFlight
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultProbeUserAgent
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProbeService{
		store:     store,
		notifier:  notifier,
		client:    client,
		sem:       semaphore.NewWeighted(opts.MaxInFlight),
		maxBody:   opts.MaxBodyBytes,
		userAgent: opts.UserAgent,
		now:       time.Now,
		log:       log,
	}
}

// Probe issues one GET to target and appends the resulting record.
//
// The returned record is always the one that was appended. A network failure
// yields a record with RequestSent=false and an error wrapping ErrProbeFailed;
// an append failure yields an error wrapping repository.ErrStoreUnavailable.
// Once started, the call is not cancelled by ctx; only the transport timeout ends it.
func (s *ProbeService) Probe(ctx context.Context, target string, meta CallerMeta) (models.Record, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return models.Record{}, ErrInvalidTarget
	}

	// Every accepted probe is recorded, so not even the wait for a slot
	// follows the caller's cancellation.
	ctx = context.WithoutCancel(ctx)
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return models.Record{}, fmt.Errorf("wait for probe slot: %w", err)
	}
	defer s.sem.Release(1)

	rec, callErr := s.call(ctx, target, meta)

	if err := s.record(ctx, rec); err != nil {
		s.log.Errorw("probe_record_failed", "err", err, "url", target)
		return rec, err
	}

	if callErr != nil {
		s.log.Warnw("probe_failed", "err", callErr, "url", target)
		return rec, fmt.Errorf("%w: %v", ErrProbeFailed, callErr)
	}
	s.log.Infow("probe_completed", "url", target, "status", rec.Status, "level", rec.Level)
	return rec, nil
}

// call performs the request and always returns a record describing it.
func (s *ProbeService) call(ctx context.Context, target string, meta CallerMeta) (models.Record, error) {
	rec := models.Record{
		Timestamp: s.now().UTC(),
		Method:    models.MethodGet,
		URL:       strings.ToValidUTF8(target, "\uFFFD"),
		UserAgent: strings.ToValidUTF8(meta.UserAgent, "\uFFFD"),
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return failed(rec, err), err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return failed(rec, err), err
	}
	defer func() { _ = resp.Body.Close() }()

	rec.RequestSent = true
	rec.Status = resp.StatusCode
	rec.Level = models.LevelForStatus(resp.StatusCode)

	// One byte past the limit tells a body that fits from one that was cut.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxBody+1))
	if err != nil {
		// The status arrived, so the request counts as completed.
		rec.Error = fmt.Sprintf("read response body: %v", err)
		return rec, nil
	}
	if int64(len(body)) > s.maxBody {
		s.log.Warnw("probe_body_truncated", "url", target, "limit", s.maxBody)
		rec.Truncated = true
		rec.Result = truncatedPayload(body[:s.maxBody])
		return rec, nil
	}
	rec.Result = payload(body)
	return rec, nil
}

// record encodes rec, appends it, then hands the line to the notifier.
func (s *ProbeService) record(ctx context.Context, rec models.Record) error {
	line, err := codec.Encode(rec)
	if err != nil {
		return err
	}
	if err := s.store.Append(ctx, line); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.Notify(line)
	}
	return nil
}

func failed(rec models.Record, err error) models.Record {
	rec.Level = models.LevelError
	rec.RequestSent = false
	rec.Error = err.Error()
	return rec
}

// payload keeps JSON bodies as JSON and wraps anything else in a JSON string.
func payload(body []byte) json.RawMessage {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err == nil && !bytes.Equal(buf.Bytes(), []byte("null")) {
			return buf.Bytes()
		}
	}
	b, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return b
}

// truncatedPayload stores a cut body as a JSON string, even when the prefix
// happens to parse, so a partial document is never mistaken for a whole one.
func truncatedPayload(prefix []byte) json.RawMessage {
	b, err := json.Marshal(strings.ToValidUTF8(string(prefix), ""))
	if err != nil {
		return nil
	}
	return b
}
