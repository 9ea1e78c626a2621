package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"cmdlint/internal/driver"
	"cmdlint/internal/ui"
)

type analyzeOutcome struct {
	result *driver.Result
	err    error
}

// runAnalyzeWithUI runs the analysis in the background while a progress UI
// consumes its events. Quitting the UI early cancels the analysis.
func runAnalyzeWithUI(ctx context.Context, title string, targets []string, opts driver.Options) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = events
		res, err := driver.Analyze(ctx, targets, optsCopy)
		outcomeCh <- analyzeOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()

	// the UI may have stopped reading before the driver finished
	cancel()
	go func() {
		for range events {
		}
	}()

	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
