package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vango-dev/vango-react/internal/config"
	"github.com/vango-dev/vango-react/internal/errors"
	"github.com/vango-dev/vango-react/pkg/react"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath string
	runtime    string
	logLevel   string
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "vango-react",
		Short: "Drive Go components through React's hook model",
		Long: `vango-react runs Go components on a React runtime.

Components keep their state in Go hook cells owned by the bridge,
while React decides when they render, commit and unmount. This
command drives a demo app on the in-process simulator or on the
goja-hosted JavaScript renderer, serves a live inspector, and
records lifecycle traces.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "", "Config file (default ./"+config.ConfigFileName+" if present)")
	pf.StringVarP(&flags.runtime, "runtime", "r", "", "Runtime to drive: sim or js")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		demoCmd(&flags),
		serveCmd(&flags),
		traceCmd(),
		configCmd(&flags),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		errors.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies command-line overrides.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}

	if flags.runtime != "" {
		cfg.Runtime = flags.runtime
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bridgeOptions returns the bridge options for cfg. The returned registry
// is nil when metrics are disabled.
func bridgeOptions(cfg *config.Config, logger *zap.Logger, observers ...react.Observer) ([]react.Option, *prometheus.Registry) {
	opts := []react.Option{
		react.WithLogger(logger),
		react.WithDebug(cfg.Debug),
	}
	for _, o := range observers {
		opts = append(opts, react.WithObserver(o))
	}

	var reg *prometheus.Registry
	if cfg.Metrics.Enabled {
		reg = prometheus.NewRegistry()
		opts = append(opts, react.WithMetrics(
			react.MetricsRegistry(reg),
			react.MetricsNamespace(cfg.Metrics.Namespace),
			react.MetricsSubsystem(cfg.Metrics.Subsystem),
		))
	}
	return opts, reg
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
