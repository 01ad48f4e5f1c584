package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"apiprobe/internal/handlers"
	"apiprobe/internal/server"
	"apiprobe/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve /test-api, /logs, /hi and the /ws realtime stream until SIGINT or
SIGTERM, then drain in-flight requests for up to 10 seconds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := opts.load(false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := openStore(cfg)
	if err != nil {
		log.Errorw("store_open_failed", "err", err, "driver", cfg.Store.Driver)
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Errorw("store_close_failed", "err", cerr)
		}
	}()

	var hub *service.Hub
	if cfg.Fanout.Enabled {
		hub = service.NewHub(log)
	}
	services := service.NewService(store, hub, probeOptions(cfg), log)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	api := handlers.NewHandler(services, log).WithAllowedOrigins(cfg.CORS.AllowedOrigins)
	srv := server.New(cfg.Port, api.InitRoutes(), cfg.Probe.Timeout)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infow("server_starting", "addr", srv.Addr(), "store", cfg.Store.Driver, "fanout", cfg.Fanout.Enabled)
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Infow("shutting down server...")

		// Observers get a going-away frame before the listener closes.
		if hub != nil {
			hub.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Errorw("server_stopped", "err", err)
		return err
	}
	log.Infow("server_stopped")
	return nil
}
