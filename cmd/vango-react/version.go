package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-react/internal/bindings"
	"github.com/vango-dev/vango-react/internal/config"
	"github.com/vango-dev/vango-react/pkg/jshost"
)

const gojaModule = "github.com/dop251/goja"

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the vango-react build, the runtimes it can drive, the React
embedded in the js runtime and the bindings script it loads.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version)
				return nil
			}
			return writeVersion(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}

func writeVersion(w io.Writer) error {
	rt, err := jshost.New()
	if err != nil {
		return fmt.Errorf("load embedded React: %w", err)
	}

	fmt.Fprintf(w, "vango-react %s (%s, built %s)\n\n", version, commit, date)
	fmt.Fprintf(w, "  Runtimes:   %s\n", strings.Join([]string{config.RuntimeSim, config.RuntimeJS}, ", "))
	fmt.Fprintf(w, "  React:      %s (embedded)\n", rt.ReactVersion())
	fmt.Fprintf(w, "  Bindings:   %s sha256:%s\n", bindings.Name, bindings.Digest())
	fmt.Fprintf(w, "  JS engine:  goja %s\n", moduleVersion(gojaModule))
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// moduleVersion returns the version of dependency path compiled into the
// binary, or "unknown" when build info is unavailable.
func moduleVersion(path string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, dep := range info.Deps {
		if dep.Path != path {
			continue
		}
		if dep.Replace != nil {
			return dep.Replace.Version
		}
		return dep.Version
	}
	return "unknown"
}
