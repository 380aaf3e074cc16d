package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"typedid/internal/pipeline"
	"typedid/internal/ui"
)

type passOutcome struct {
	result *pipeline.Result
	err    error
}

type passFunc func(ctx context.Context, opts pipeline.Options) (*pipeline.Result, error)

// runPassWithUI runs one pass while a Bubble Tea view renders its progress.
func runPassWithUI(ctx context.Context, title string, targets []string, opts pipeline.Options, run passFunc) (*pipeline.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan pipeline.Event, 256)
	outcomeCh := make(chan passOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = pipeline.ChannelSink{Ch: events}
		res, err := run(ctx, optsCopy)
		outcomeCh <- passOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, targets, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()

	var outcome passOutcome
	select {
	case outcome = <-outcomeCh:
	default:
		// UI завершилась раньше прогона (ctrl+c): отменяем и дочитываем события
		cancel()
		go func() {
			for range events {
			}
		}()
		outcome = <-outcomeCh
	}
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
