package handlers

import (
	"context"
	"net/http"
	"sync"

	"apiprobe/internal/models"
	"apiprobe/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockProber struct {
	mu      sync.Mutex
	rec     models.Record
	err     error
	calls   int
	lastURL string
	lastUA  string
}

func (m *mockProber) Probe(ctx context.Context, target string, meta service.CallerMeta) (models.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.lastURL = target
	m.lastUA = meta.UserAgent
	return m.rec, m.err
}

type mockQuery struct {
	resp       service.QueryResult
	err        error
	lastFilter service.Filter
	calls      int
}

func (m *mockQuery) Query(ctx context.Context, f service.Filter) (service.QueryResult, error) {
	m.calls++
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

func requestHeader(kv ...string) http.Header {
	h := http.Header{}
	for i := 0; i+1 < len(kv); i += 2 {
		h.Set(kv[i], kv[i+1])
	}
	return h
}
