package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vango-react/internal/errors"
	"github.com/vango-dev/vango-react/internal/tracestore"
)

func traceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Inspect recorded traces",
	}
	cmd.AddCommand(traceShowCmd(), traceListCmd())
	return cmd
}

func traceShowCmd() *cobra.Command {
	var showEvents bool

	cmd := &cobra.Command{
		Use:   "show <file>",
		Short: "Summarize a trace file",
		Long: `Read a trace written by the file sink and print its event
counts. The format follows the file extension (.json or .yaml).

Examples:
  vango-react trace show traces/20250301T120000Z-1a2b3c4d.yaml
  vango-react trace show --events trace.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := readTrace(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("trace %s\n", t.ID)
			info("started:  %s", t.Started.Format("2006-01-02 15:04:05"))
			info("duration: %s", t.Ended.Sub(t.Started).Round(time.Millisecond))
			info("events:   %d (%d dropped)", len(t.Events), t.Dropped)
			fmt.Println()
			if showEvents {
				printEvents(t.Events)
				fmt.Println()
			}
			printSummary(t)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showEvents, "events", "e", false, "Print every lifecycle event")

	return cmd
}

func traceListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List trace files in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "traces"
			if len(args) == 1 {
				dir = args[0]
			}
			store, err := tracestore.NewFileStore(dir, tracestore.FormatJSON)
			if err != nil {
				return err
			}
			keys, err := store.List()
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Println(filepath.Join(dir, k))
			}
			return nil
		},
	}
}

func readTrace(path string) (*tracestore.Trace, error) {
	f, err := tracestore.ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.New("R051").Wrap(err)
	}
	defer file.Close()
	return tracestore.Decode(file, f)
}
