package cli

import (
	"fmt"

	"apiprobe/internal/config"
	"apiprobe/internal/logger"
	"apiprobe/internal/repository"
	"apiprobe/internal/service"
)

// load reads config and builds the logger; stderr keeps stdout free for data commands.
func (o *rootOptions) load(stderr bool) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	var log *logger.Logger
	if stderr {
		log = logger.NewStderr(cfg.Log.Level, cfg.Log.Format)
	} else {
		log = logger.New(cfg.Log.Level, cfg.Log.Format)
	}
	return cfg, log, nil
}

func openStore(cfg *config.Config) (repository.LogStore, error) {
	store, err := repository.NewLogStore(repository.StoreConfig{
		Driver:     cfg.Store.Driver,
		Path:       cfg.Store.Path,
		SQLitePath: cfg.Store.SQLitePath,
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", cfg.Store.Driver, err)
	}
	return store, nil
}

func probeOptions(cfg *config.Config) service.ProbeOptions {
	return service.ProbeOptions{
		Timeout:      cfg.Probe.Timeout,
		MaxBodyBytes: cfg.Probe.MaxBodyBytes,
		MaxInFlight:  cfg.Probe.MaxInFlight,
		UserAgent:    cfg.Probe.UserAgent,
	}
}
