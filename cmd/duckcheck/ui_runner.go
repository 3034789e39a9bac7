package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"duckcheck/internal/driver"
	"duckcheck/internal/ui"
)

type checkOutcome struct {
	result *driver.Result
	err    error
}

// runCheckWithUI runs driver.Check in the background while a progress
// model renders its events. The driver result wins over UI errors.
func runCheckWithUI(ctx context.Context, title string, files, targets []string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan checkOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Events = driver.ChannelSink(events)
		res, err := driver.Check(ctx, targets, optsCopy)
		outcomeCh <- checkOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the model may quit before the driver finishes
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.err != nil {
		return nil, outcome.err
	}
	if uiErr != nil && outcome.result == nil {
		return nil, uiErr
	}
	return outcome.result, nil
}
