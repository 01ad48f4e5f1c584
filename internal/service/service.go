package service

import (
	"context"

	"apiprobe/internal/logger"
	"apiprobe/internal/models"
	"apiprobe/internal/repository"
)

// Prober runs a single outbound check and records its outcome.
type Prober interface {
	Probe(ctx context.Context, target string, meta CallerMeta) (models.Record, error)
}

// LogQuery exposes read-only, filtered access to the append-only log.
type LogQuery interface {
	Query(ctx context.Context, f Filter) (QueryResult, error)
}

// Fanout lets transport code attach realtime observers.
type Fanout interface {
	Register(o Observer)
	Unregister(o Observer)
	Count() int
}

// Service aggregates all sub-services.
// Fanout is nil when realtime delivery is disabled.
type Service struct {
	Prober
	LogQuery
	Fanout
}

// NewService wires the store and optional hub into concrete services.
// Lifecycle of store and hub stays with the caller.
func NewService(store repository.LogStore, hub *Hub, opts ProbeOptions, log *logger.Logger) *Service {
	s := &Service{
		LogQuery: NewQueryService(store, log),
	}
	if hub != nil {
		s.Prober = NewProbeService(store, hub, opts, log)
		s.Fanout = hub
	} else {
		s.Prober = NewProbeService(store, nil, opts, log)
	}
	return s
}
