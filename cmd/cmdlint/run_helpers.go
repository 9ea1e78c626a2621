package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"cmdlint/internal/driver"
	"cmdlint/internal/observ"
	"cmdlint/internal/project"
)

// cacheDirName is the directory below the user cache root.
const cacheDirName = "cmdlint"

// loadConfig honours --config and otherwise searches upwards from the
// first target.
func loadConfig(cmd *cobra.Command, targets []string) (*project.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return project.LoadFile(path)
	}
	start := "."
	if len(targets) > 0 {
		start = targets[0]
	}
	return project.Load(start)
}

// buildDriverOptions combines cmdlint.toml with the persistent flags, which
// win over config values.
func buildDriverOptions(cmd *cobra.Command, targets []string) (driver.Options, error) {
	pf := cmd.Root().PersistentFlags()

	cfg, err := loadConfig(cmd, targets)
	if err != nil {
		return driver.Options{}, err
	}
	jobs, err := pf.GetInt("jobs")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs < 0 {
		return driver.Options{}, fmt.Errorf("--jobs must not be negative")
	}
	maxDiagnostics, err := pf.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	useCache, err := pf.GetBool("cache")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get cache flag: %w", err)
	}
	noCache, err := pf.GetBool("no-cache")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if useCache && noCache {
		return driver.Options{}, fmt.Errorf("--cache and --no-cache are mutually exclusive")
	}
	showTimings, err := pf.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}

	opts := driver.Options{
		Config:         cfg,
		Jobs:           jobs,
		MaxDiagnostics: maxDiagnostics,
	}
	if (useCache || cfg.Analysis.Cache) && !noCache {
		cache, err := driver.OpenDiskCache(cacheDirName)
		if err != nil {
			return driver.Options{}, fmt.Errorf("open cache: %w", err)
		}
		opts.Cache = cache
	}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	return opts, nil
}

// analyze runs the driver, with the progress UI when --ui resolves to on.
func analyze(cmd *cobra.Command, targets []string, opts driver.Options, humanOutput bool) (*driver.Result, error) {
	uiFlag, err := cmd.Root().PersistentFlags().GetString("ui")
	if err != nil {
		return nil, fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return nil, err
	}
	if shouldUseTUI(mode, humanOutput) {
		return runAnalyzeWithUI(cmd.Context(), "cmdlint "+cmd.Name(), targets, opts)
	}
	return driver.Analyze(cmd.Context(), targets, opts)
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if timer == nil || out == nil {
		return
	}
	if _, err := fmt.Fprint(out, timer.Summary()); err != nil {
		panic(err)
	}
}
