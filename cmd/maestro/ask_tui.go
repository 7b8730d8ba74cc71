package main

import (
	"context"
	"fmt"
	"io"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ckeeney/maestro/internal/orchestrator"
	"github.com/ckeeney/maestro/internal/tui"
	"github.com/ckeeney/maestro/pkg/models"
)

// askWithTUI runs one request with a live session monitor. The monitor
// stays up after the response arrives so the user can read it, then the
// response is reprinted on the normal screen for scrollback.
func askWithTUI(ctx context.Context, eng *engine, req models.Request) error {
	// Suppress log output while the TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	program, _ := tui.NewMonitorProgram(req.Input)

	go forwardEventsToTUI(program, eng.orch.Events())

	respCh := make(chan *models.Response, 1)
	errCh := make(chan error, 1)
	go func() {
		resp, err := eng.orch.Respond(ctx, req)
		if err != nil {
			errCh <- err
			return
		}
		respCh <- resp
	}()

	tuiDone := make(chan error, 1)
	go func() {
		_, err := program.Run()
		tuiDone <- err
	}()

	select {
	case resp := <-respCh:
		program.Send(tui.ResponseMsg{Response: resp})
		// Wait for the user to quit (press q) so they can read the result
		if err := <-tuiDone; err != nil {
			return fmt.Errorf("run TUI: %w", err)
		}
		fmt.Println(resp.Content)
		return nil

	case err := <-errCh:
		program.Send(tui.SessionFailedMsg{Err: err})
		<-tuiDone
		return err

	case err := <-tuiDone:
		// User quit before the pipeline finished. Cancel and wait for
		// the session to unwind before the caller closes the engine.
		cancel()
		select {
		case <-respCh:
		case <-errCh:
		}
		if err != nil {
			return fmt.Errorf("run TUI: %w", err)
		}
		return nil
	}
}

// forwardEventsToTUI converts orchestrator events to TUI messages.
func forwardEventsToTUI(program *tea.Program, events <-chan orchestrator.Event) {
	for event := range events {
		program.Send(tui.EventMsg{Event: event})
	}
}
