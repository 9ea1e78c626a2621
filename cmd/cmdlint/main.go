package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cmdlint/internal/version"
)

// errFindings is returned when diagnostics were printed and the run must
// exit non-zero without another message.
var errFindings = errors.New("findings reported")

var rootCmd = &cobra.Command{
	Use:   "cmdlint",
	Short: "Lint System.CommandLine command classes",
	Long: `cmdlint checks C# command classes built on the System.CommandLine generator:
BindHandler calls in constructors, generator attributes, and the root command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		stopTracing, err := setupTracing(cmd)
		if err != nil {
			stopProfiling()
			return err
		}
		cleanup = func() {
			stopTracing()
			stopProfiling()
		}
		return nil
	},
}

// cleanup flushes tracing and profiling; PersistentPostRun is skipped on error.
var cleanup = func() {}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to cmdlint.toml (default: search upwards from the target)")
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.String("ui", "auto", "progress UI (auto|on|off)")
	pf.Bool("timings", false, "show timing information")
	pf.Int("jobs", 0, "max parallel workers (0=config or GOMAXPROCS)")
	pf.Int("max-diagnostics", 0, "maximum number of diagnostics to report (0=config)")
	pf.Bool("cache", false, "reuse per-file results from the disk cache")
	pf.Bool("no-cache", false, "ignore the disk cache even when cmdlint.toml enables it")
	pf.String("trace", "", "write trace events to a file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 0, "ring buffer capacity in events (0=default)")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	cleanup()

	if err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
