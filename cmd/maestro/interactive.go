package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ckeeney/maestro/internal/config"
	"github.com/ckeeney/maestro/internal/manifest"
	"github.com/ckeeney/maestro/internal/tui"
	"github.com/ckeeney/maestro/pkg/models"
)

// interactiveCmd is an explicit alias; running maestro with no
// arguments does the same thing.
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the persistent TUI",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

func init() {
	interactiveCmd.Flags().BoolVar(&rootOffline, "offline", false, "Answer with the canned offline adapter instead of the Anthropic API")
}

// runInteractive starts the persistent TUI. Requests typed at the
// prompt run one at a time; edits to the specialist manifest are
// picked up between requests.
func runInteractive() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	eng, err := newEngine(cfg, rootOffline)
	if err != nil {
		return err
	}

	watcher := manifest.NewWatcher(cfg.Manifest.Path)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Suppress log output while the TUI is active (it corrupts the display)
	originalOutput := log.Writer()
	log.SetOutput(io.Discard)
	defer log.SetOutput(originalOutput)

	program, app := tui.NewInteractiveProgram()

	go forwardEventsToTUI(program, eng.orch.Events())

	// mu guards eng across roster reloads. The TUI submits one request
	// at a time, so a swap here never races an in-flight session.
	var mu sync.Mutex
	var inflight sync.WaitGroup

	app.SetSubmitHandler(func(input string) {
		inflight.Add(1)
		go func() {
			defer inflight.Done()
			mu.Lock()
			if watcher.Changed() {
				fresh, err := newEngine(cfg, rootOffline)
				if err != nil {
					program.Send(tui.LogMsg{Level: "WARN", Message: fmt.Sprintf("roster reload failed: %v", err)})
				} else {
					go forwardEventsToTUI(program, fresh.orch.Events())
					eng.Close()
					eng = fresh
					watcher.Acknowledge()
					program.Send(tui.LogMsg{Level: "INFO", Message: "specialist roster reloaded"})
				}
			}
			cur := eng
			mu.Unlock()

			resp, err := cur.orch.Respond(ctx, models.Request{Input: input})
			if err != nil {
				program.Send(tui.SessionFailedMsg{Err: err})
				return
			}
			program.Send(tui.ResponseMsg{Response: resp})
		}()
	})

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		program.Quit()
	}()

	_, runErr := program.Run()

	// Unwind any in-flight session before tearing down the engine;
	// emitting an event on a closed channel would panic.
	cancel()
	inflight.Wait()

	mu.Lock()
	eng.Close()
	mu.Unlock()

	if runErr != nil {
		return fmt.Errorf("run TUI: %w", runErr)
	}
	return nil
}
