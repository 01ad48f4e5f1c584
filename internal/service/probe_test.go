package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"apiprobe/internal/codec"
	"apiprobe/internal/logger"
	"apiprobe/internal/models"
	"apiprobe/internal/repository"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTarget(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestProbe_StatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		want   models.Level
	}{
		{http.StatusOK, models.LevelSuccess},
		{http.StatusCreated, models.LevelSuccess},
		{http.StatusNoContent, models.LevelSuccess},
		{http.StatusBadRequest, models.LevelError},
		{http.StatusUnauthorized, models.LevelError},
		{http.StatusForbidden, models.LevelError},
		{http.StatusNotFound, models.LevelError},
		{http.StatusInternalServerError, models.LevelError},
		{http.StatusTeapot, models.LevelInfo},
		{http.StatusAccepted, models.LevelInfo},
		{http.StatusBadGateway, models.LevelInfo},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			t.Parallel()

			srv := newTarget(t, tc.status, "")
			store := &memStore{}
			svc := NewProbeService(store, nil, ProbeOptions{Timeout: 2 * time.Second}, nil)

			rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{UserAgent: "ua-test"})
			if err != nil {
				t.Fatalf("Probe: %v", err)
			}
			if rec.Level != tc.want || !rec.RequestSent || rec.Status != tc.status {
				t.Fatalf("got level=%s sent=%v status=%d; want level=%s sent=true status=%d",
					rec.Level, rec.RequestSent, rec.Status, tc.want, tc.status)
			}
			if rec.Method != models.MethodGet || rec.URL != srv.URL || rec.UserAgent != "ua-test" {
				t.Fatalf("unexpected metadata: %+v", rec)
			}
			if store.count() != 1 {
				t.Fatalf("expected exactly one append, got %d", store.count())
			}
		})
	}
}

func TestProbe_StoresJSONPayload(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, "{ \"message\": \"dog\",\n \"status\": \"success\" }")
	store := &memStore{}
	svc := NewProbeService(store, nil, ProbeOptions{}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if string(rec.Result) != `{"message":"dog","status":"success"}` {
		t.Fatalf("unexpected result: %s", rec.Result)
	}

	stored, err := codec.Decode(store.lines[0])
	if err != nil {
		t.Fatalf("decode stored line: %v", err)
	}
	if string(stored.Result) != string(rec.Result) || stored.Error != "" {
		t.Fatalf("stored record differs: %+v", stored)
	}
}

func TestProbe_NonJSONPayloadStoredAsString(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, "<html>hi</html>")
	svc := NewProbeService(&memStore{}, nil, ProbeOptions{}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if string(rec.Result) != `"<html>hi</html>"` {
		t.Fatalf("unexpected result: %s", rec.Result)
	}
}

func TestProbe_BodyIsBounded(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, strings.Repeat("a", 100))
	svc := NewProbeService(&memStore{}, nil, ProbeOptions{MaxBodyBytes: 10}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if string(rec.Result) != `"aaaaaaaaaa"` {
		t.Fatalf("unexpected result: %s", rec.Result)
	}
	if !rec.Truncated {
		t.Fatal("expected truncated flag")
	}
}

func TestProbe_OversizedJSONIsMarkedTruncated(t *testing.T) {
	t.Parallel()

	body := `{"items":"` + strings.Repeat("x", 100) + `"}`
	srv := newTarget(t, http.StatusOK, body)
	core, logs := observer.New(zapcore.DebugLevel)
	store := &memStore{}
	svc := NewProbeService(store, nil, ProbeOptions{MaxBodyBytes: 50}, logger.FromCore(core))

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !rec.Truncated || rec.Error != "" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	var prefix string
	if err := json.Unmarshal(rec.Result, &prefix); err != nil {
		t.Fatalf("truncated result should be a JSON string: %s", rec.Result)
	}
	if prefix != body[:50] {
		t.Fatalf("prefix=%q; want %q", prefix, body[:50])
	}

	entries := logs.FilterMessage("probe_body_truncated").All()
	if len(entries) != 1 || entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected one warn entry, got %+v", entries)
	}
	if got := entries[0].ContextMap()["limit"]; got != int64(50) {
		t.Fatalf("limit field=%v", got)
	}

	stored, err := codec.Decode(store.lines[0])
	if err != nil || !stored.Truncated {
		t.Fatalf("stored record lost the flag: %+v (err=%v)", stored, err)
	}
}

func TestProbe_TruncatedPrefixThatParsesStaysString(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, "12345")
	svc := NewProbeService(&memStore{}, nil, ProbeOptions{MaxBodyBytes: 3}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if string(rec.Result) != `"123"` || !rec.Truncated {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestProbe_BodyAtLimitIsWhole(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, `{"a":1}`)
	svc := NewProbeService(&memStore{}, nil, ProbeOptions{MaxBodyBytes: 7}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if rec.Truncated || string(rec.Result) != `{"a":1}` {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func TestProbe_InvalidUTF8UserAgentRoundTrips(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, "")
	store := &memStore{}
	svc := NewProbeService(store, nil, ProbeOptions{}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{UserAgent: "a\xffb"})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if rec.UserAgent != "a\uFFFDb" {
		t.Fatalf("user agent=%q", rec.UserAgent)
	}
	stored, err := codec.Decode(store.lines[0])
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if stored.UserAgent != rec.UserAgent {
		t.Fatalf("stored user agent %q differs from returned %q", stored.UserAgent, rec.UserAgent)
	}
}

func TestProbe_EmptyBodyOmitsResult(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusNoContent, "")
	svc := NewProbeService(&memStore{}, nil, ProbeOptions{}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if rec.Result != nil {
		t.Fatalf("expected no result, got %s", rec.Result)
	}
}

func TestProbe_SendsConfiguredUserAgent(t *testing.T) {
	t.Parallel()

	got := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got <- r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	svc := NewProbeService(&memStore{}, nil, ProbeOptions{UserAgent: "probe-bot/2"}, nil)
	if _, err := svc.Probe(context.Background(), srv.URL, CallerMeta{UserAgent: "browser"}); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if ua := <-got; ua != "probe-bot/2" {
		t.Fatalf("outbound User-Agent = %q", ua)
	}
}

func TestProbe_InvalidTarget(t *testing.T) {
	t.Parallel()

	for _, target := range []string{"", "   "} {
		store := &memStore{}
		notifier := &recordingNotifier{}
		svc := NewProbeService(store, notifier, ProbeOptions{}, nil)

		_, err := svc.Probe(context.Background(), target, CallerMeta{})
		if !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("Probe(%q) err = %v; want ErrInvalidTarget", target, err)
		}
		if store.appends != 0 || len(notifier.lines) != 0 {
			t.Fatalf("no append/notify expected, got appends=%d notified=%d", store.appends, len(notifier.lines))
		}
	}
}

func TestProbe_UnreachableHost(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := &memStore{}
	notifier := &recordingNotifier{}
	svc := NewProbeService(store, notifier, ProbeOptions{Timeout: 2 * time.Second}, nil)

	rec, err := svc.Probe(context.Background(), url, CallerMeta{})
	if !errors.Is(err, ErrProbeFailed) {
		t.Fatalf("expected ErrProbeFailed, got %v", err)
	}
	if rec.Level != models.LevelError || rec.RequestSent || rec.Error == "" || rec.Status != 0 {
		t.Fatalf("unexpected failure record: %+v", rec)
	}
	if store.count() != 1 {
		t.Fatalf("failure record must still be appended, got %d", store.count())
	}
	if len(notifier.lines) != 1 {
		t.Fatalf("failure record must be notified, got %d", len(notifier.lines))
	}
}

func TestProbe_MalformedURLRecordsFailure(t *testing.T) {
	t.Parallel()

	store := &memStore{}
	svc := NewProbeService(store, nil, ProbeOptions{}, nil)

	rec, err := svc.Probe(context.Background(), "ftp://example.com/file", CallerMeta{})
	if !errors.Is(err, ErrProbeFailed) {
		t.Fatalf("expected ErrProbeFailed, got %v", err)
	}
	if rec.RequestSent || rec.Level != models.LevelError || store.count() != 1 {
		t.Fatalf("unexpected outcome: rec=%+v appends=%d", rec, store.count())
	}
}

func TestProbe_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	store := &memStore{}
	svc := NewProbeService(store, nil, ProbeOptions{Timeout: 50 * time.Millisecond}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if !errors.Is(err, ErrProbeFailed) {
		t.Fatalf("expected ErrProbeFailed, got %v", err)
	}
	if rec.RequestSent || store.count() != 1 {
		t.Fatalf("unexpected outcome: rec=%+v appends=%d", rec, store.count())
	}
}

func TestProbe_IgnoresCallerCancellationOnceStarted(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cancel() // caller goes away mid-flight
		time.Sleep(20 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store := &memStore{}
	svc := NewProbeService(store, nil, ProbeOptions{Timeout: 2 * time.Second}, nil)

	rec, err := svc.Probe(ctx, srv.URL, CallerMeta{})
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if rec.Status != http.StatusOK || store.count() != 1 {
		t.Fatalf("probe should complete: rec=%+v appends=%d", rec, store.count())
	}
}

func TestProbe_StoreFailure(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, `{}`)
	storeErr := fmt.Errorf("%w: disk full", repository.ErrStoreUnavailable)
	store := &memStore{appendErr: storeErr}
	notifier := &recordingNotifier{}
	svc := NewProbeService(store, notifier, ProbeOptions{}, nil)

	rec, err := svc.Probe(context.Background(), srv.URL, CallerMeta{})
	if !errors.Is(err, repository.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if rec.Status != http.StatusOK {
		t.Fatalf("record should still describe the probe: %+v", rec)
	}
	if store.appends != 1 {
		t.Fatalf("append must be attempted exactly once, got %d", store.appends)
	}
	if len(notifier.lines) != 0 {
		t.Fatalf("unpersisted record must not be fanned out")
	}
}

func TestProbe_NotifiesStoredLine(t *testing.T) {
	t.Parallel()

	srv := newTarget(t, http.StatusOK, `{"ok":true}`)
	store := &memStore{}
	notifier := &recordingNotifier{}
	svc := NewProbeService(store, notifier, ProbeOptions{}, nil)

	if _, err := svc.Probe(context.Background(), srv.URL, CallerMeta{}); err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if len(notifier.lines) != 1 || string(notifier.lines[0]) != string(store.lines[0]) {
		t.Fatalf("notified line differs from stored line: %q vs %q", notifier.lines, store.lines)
	}
}

func TestProbe_CancelWhileWaitingForSlotStillRecords(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	store := &memStore{}
	svc := NewProbeService(store, nil, ProbeOptions{MaxInFlight: 1, Timeout: 5 * time.Second}, nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = svc.Probe(context.Background(), srv.URL, CallerMeta{})
	}()

	// Wait until the first probe holds the only slot.
	deadline := time.Now().Add(2 * time.Second)
	for svc.sem.TryAcquire(1) {
		svc.sem.Release(1)
		if time.Now().After(deadline) {
			t.Fatalf("first probe never started")
		}
		time.Sleep(5 * time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	second := make(chan error, 1)
	go func() {
		_, err := svc.Probe(ctx, srv.URL, CallerMeta{})
		second <- err
	}()

	<-ctx.Done()
	time.Sleep(20 * time.Millisecond)
	close(release)
	<-done

	select {
	case err := <-second:
		if err != nil {
			t.Fatalf("second probe: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("second probe never finished")
	}
	if store.count() != 2 {
		t.Fatalf("both probes should be recorded, got %d", store.count())
	}
}

func TestPayload(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"   ", ""},
		{`[1, 2]`, `[1,2]`},
		{`"text"`, `"text"`},
		{`null`, `"null"`},
		{`plain`, `"plain"`},
		{`{"broken":`, `"{\"broken\":"`},
	}
	for _, tc := range cases {
		if got := string(payload([]byte(tc.in))); got != tc.want {
			t.Errorf("payload(%q) = %q; want %q", tc.in, got, tc.want)
		}
	}
}
