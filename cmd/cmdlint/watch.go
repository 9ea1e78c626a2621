package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cmdlint/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] [directory|glob]...",
	Short: "Re-run diagnostics whenever C# sources change",
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	watchCmd.Flags().String("path-mode", "auto", "how paths are printed (auto|relative|absolute|basename)")
	watchCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	watchCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	watchCmd.Flags().Bool("preview", false, "preview fix edits (implies --suggest)")
	watchCmd.Flags().Duration("debounce", driver.DefaultDebounce, "wait this long for more changes before re-running")
}

func runWatch(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic(cmd)

	out, err := readDiagOutput(cmd)
	if err != nil {
		return err
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	opts, err := buildDriverOptions(cmd, args)
	if err != nil {
		return err
	}
	// phases would accumulate across runs
	opts.Timer = nil

	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	run := 0
	return driver.Watch(cmd.Context(), args, opts, debounce, func(res *driver.Result, err error) error {
		run++
		if out.human() {
			fmt.Fprintf(stderr, "== run %d at %s ==\n", run, time.Now().Format(time.TimeOnly))
		}
		if err != nil {
			// a broken cmdlint.toml should not end the session
			fmt.Fprintln(stderr, "error:", err)
			return nil
		}
		if werr := writeDiagnostics(stdout, res, out); werr != nil {
			return werr
		}
		if out.human() && res.Bag.Len() == 0 {
			fmt.Fprintln(stdout, "no diagnostics")
		}
		return nil
	})
}
