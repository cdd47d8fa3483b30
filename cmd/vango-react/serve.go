package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vango-dev/vango-react/internal/config"
	"github.com/vango-dev/vango-react/internal/demo"
	"github.com/vango-dev/vango-react/internal/inspect"
	"github.com/vango-dev/vango-react/internal/tracestore"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr     string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the demo app with the live inspector",
		Long: `Mount the demo app and serve the inspector while the counter
ticks at a fixed interval. Stop with Ctrl-C; the app is unmounted
and the trace stored on the way out.

Inspector routes:
  /healthz, /metrics, /stats, /instances, /instances/{id}, /events (WebSocket)

Examples:
  vango-react serve
  vango-react serve --addr=:7070 --interval=250ms`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Inspect.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, interval)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Inspector address (default from config)")
	cmd.Flags().DurationVarP(&interval, "interval", "i", time.Second, "Counter tick interval")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, interval time.Duration) error {
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	host, err := demo.NewHost(cfg.Runtime, logger)
	if err != nil {
		return err
	}

	hub := inspect.NewHub(logger)
	rec := tracestore.NewRecorder(10000)
	opts, reg := bridgeOptions(cfg, logger, hub, rec)
	d, err := demo.New(host, opts...)
	if err != nil {
		return err
	}

	srvOpts := []inspect.Option{inspect.WithHub(hub), inspect.WithLogger(logger)}
	if reg != nil {
		srvOpts = append(srvOpts, inspect.WithGatherer(reg))
	}
	srv := inspect.New(d.Bridge(), srvOpts...)

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe(serveCtx, cfg.Inspect.Addr)
	}()

	if err := d.Mount(); err != nil {
		return err
	}
	success("Inspector on http://%s", cfg.Inspect.Addr)

	// The bridge and its runtime are confined to this goroutine; the
	// inspector only reads Stats and Instances.
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	var serveErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case serveErr = <-errCh:
			break loop
		case <-ticker.C:
			if err := d.Tick(); err != nil {
				logger.Warn("tick failed", zap.Error(err))
			}
		}
	}

	if err := d.Close(); err != nil {
		logger.Warn("unmount failed", zap.Error(err))
	}
	cancel()
	if serveErr == nil {
		serveErr = <-errCh
	}
	if serveErr != nil {
		return serveErr
	}

	trace := rec.Snapshot(d.Bridge().Stats())
	printSummary(trace)
	return storeTrace(context.Background(), cfg, logger, trace)
}
