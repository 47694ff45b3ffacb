package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"javamaybe/internal/driver"
	"javamaybe/internal/ui"
)

type runOutcome struct {
	result *driver.Result
	err    error
}

func runWithUI(ctx context.Context, title string, opts driver.Options) (*driver.Result, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Run(ctx, optsCopy)
		outcomeCh <- runOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// the view may quit early (ctrl+c); keep draining so the run never blocks
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
