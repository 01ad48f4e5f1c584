package service

import (
	"context"
	"sync"
)

// memStore is an in-memory LogStore for service tests.
type memStore struct {
	mu        sync.Mutex
	lines     [][]byte
	appendErr error
	readErr   error
	appends   int
}

func (m *memStore) Append(_ context.Context, line []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appends++
	if m.appendErr != nil {
		return m.appendErr
	}
	m.lines = append(m.lines, append([]byte(nil), line...))
	return nil
}

func (m *memStore) ReadAll(_ context.Context) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([][]byte, len(m.lines))
	copy(out, m.lines)
	return out, nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

// recordingNotifier captures every notified line.
type recordingNotifier struct {
	mu    sync.Mutex
	lines [][]byte
}

func (r *recordingNotifier) Notify(line []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}
