package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vango-dev/vango-react/internal/config"
	"github.com/vango-dev/vango-react/internal/demo"
	"github.com/vango-dev/vango-react/internal/tracestore"
	"github.com/vango-dev/vango-react/pkg/react"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the scripted demo app",
		Long: `Mount the demo app, perform a scripted sequence of clicks and
typing, and unmount it. The markup is printed after every step,
followed by a summary of the lifecycle events.

If a trace sink is configured, the recorded trace is stored.

Examples:
  vango-react demo
  vango-react demo --runtime=js --events
  VANGO_REACT_TRACE_SINK=file vango-react demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runDemo(ctx, cfg, showEvents)
		},
	}

	cmd.Flags().BoolVarP(&showEvents, "events", "e", false, "Print every lifecycle event")

	return cmd
}

func runDemo(ctx context.Context, cfg *config.Config, showEvents bool) error {
	logger, err := cfg.Logger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	host, err := demo.NewHost(cfg.Runtime, logger)
	if err != nil {
		return err
	}
	rec := tracestore.NewRecorder(0)
	opts, _ := bridgeOptions(cfg, logger, rec)
	d, err := demo.New(host, opts...)
	if err != nil {
		return err
	}

	info("runtime: %s", cfg.Runtime)
	fmt.Println()
	runErr := d.Run(ctx, os.Stdout, demo.Script)
	if err := d.Close(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		return runErr
	}
	fmt.Println()

	trace := rec.Snapshot(d.Bridge().Stats())
	if showEvents {
		printEvents(trace.Events)
		fmt.Println()
	}
	printSummary(trace)

	return storeTrace(ctx, cfg, logger, trace)
}

// storeTrace persists t to the configured sink, if any.
func storeTrace(ctx context.Context, cfg *config.Config, logger *zap.Logger, t *tracestore.Trace) error {
	store, err := tracestore.Open(cfg.Trace)
	if err != nil {
		return err
	}
	if store == nil {
		return nil
	}
	key, err := store.Put(ctx, t)
	if err != nil {
		return err
	}
	logger.Info("trace stored", zap.String("sink", cfg.Trace.Sink), zap.String("key", key))
	success("Trace stored as %s", key)
	return nil
}

func printEvents(events []react.Event) {
	for _, e := range events {
		line := fmt.Sprintf("%-18s #%d %s", e.Kind, e.Instance, e.Component)
		if e.Key != "" {
			line += " " + e.Key
		}
		if e.Detail != "" {
			line += " (" + e.Detail + ")"
		}
		info("%s", line)
	}
}

// printSummary prints event counts and checks that the trace ends with
// everything unmounted. Context defaults keep their tokens for the life
// of the bridge, so TokensLive need not be zero.
func printSummary(t *tracestore.Trace) {
	counts := map[react.EventKind]int{}
	for _, e := range t.Events {
		counts[e.Kind]++
	}
	kinds := make([]react.EventKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, k := range kinds {
		info("%-18s %d", k, counts[k])
	}
	fmt.Println()

	s := t.Stats
	if s.Instances == 0 && s.Cells == 0 {
		success("All instances unmounted, %d of %d tokens released", s.TokensFreed, s.TokensIssued)
	} else {
		warn("%d instances, %d cells and %d tokens still live", s.Instances, s.Cells, s.TokensLive)
	}
}
