package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ckeeney/maestro/internal/config"
	"github.com/ckeeney/maestro/internal/orchestrator"
	"github.com/ckeeney/maestro/pkg/models"
)

var (
	askJSON    bool
	askTUI     bool
	askOffline bool
	askUser    string
)

var askCmd = &cobra.Command{
	Use:   "ask <request>",
	Short: "Ask the specialist roster a single question",
	Long: `Ask routes one request through the orchestration pipeline and prints
the fused response.

The request is classified, matching specialists are selected from the
roster, and their outputs are fused weighted by confidence. Progress is
printed as events arrive; use --tui for a live view or --json for
machine-readable output.

Examples:
  maestro ask "why is this query slow?"
  maestro ask --tui "compare these two cache designs"
  maestro ask --json "summarize the incident report" | jq .confidence
  maestro ask --offline "smoke test the pipeline"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the response as JSON")
	askCmd.Flags().BoolVar(&askTUI, "tui", false, "Show live progress in a TUI")
	askCmd.Flags().BoolVar(&askOffline, "offline", false, "Answer with the canned offline adapter instead of the Anthropic API")
	askCmd.Flags().StringVar(&askUser, "user", "", "User ID recorded with the session")
}

func runAsk(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	eng, err := newEngine(cfg, askOffline)
	if err != nil {
		return err
	}
	defer eng.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt, shutting down...")
		cancel()
	}()

	req := models.Request{Input: input, UserID: askUser}

	if askTUI {
		return askWithTUI(ctx, eng, req)
	}

	// Headless: stream events to stderr while the pipeline runs, so
	// stdout stays clean for the response itself.
	printerDone := make(chan struct{})
	go func() {
		defer close(printerDone)
		if askJSON {
			for range eng.orch.Events() {
			}
			return
		}
		for ev := range eng.orch.Events() {
			printEvent(ev)
		}
	}()

	resp, err := eng.orch.Respond(ctx, req)

	// Closing the engine ends the event stream; wait for the printer
	// so progress lines never interleave with the response.
	eng.Close()
	<-printerDone

	if err != nil {
		return err
	}

	if askJSON {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println()
	fmt.Println(resp.Content)
	fmt.Println()
	printResponseSummary(eng, resp)
	return nil
}

// printEvent renders one pipeline event as a progress line on stderr.
func printEvent(ev orchestrator.Event) {
	switch ev.Type {
	case orchestrator.EventSessionStarted:
		fmt.Fprintf(os.Stderr, "%s session %s\n", color.CyanString("▸"), ev.SessionID)
	case orchestrator.EventPlanCreated:
		fmt.Fprintf(os.Stderr, "%s %s\n", color.CyanString("▸"), ev.Message)
	case orchestrator.EventPhaseStarted:
		fmt.Fprintf(os.Stderr, "%s phase %s\n", color.CyanString("▸"), ev.Phase)
	case orchestrator.EventStepCompleted:
		fmt.Fprintf(os.Stderr, "%s %s (%s, conf %.2f, %s)\n",
			color.GreenString("✓"), ev.SpecialistID, ev.Phase, ev.Confidence,
			ev.Duration.Round(100*time.Millisecond))
	case orchestrator.EventStepRetrying:
		fmt.Fprintf(os.Stderr, "%s %s retry %d: %v\n",
			color.YellowString("↻"), ev.SpecialistID, ev.Attempt, ev.Error)
	case orchestrator.EventStepFailed:
		fmt.Fprintf(os.Stderr, "%s %s failed: %v\n",
			color.RedString("✗"), ev.SpecialistID, ev.Error)
	case orchestrator.EventExecutionDegraded:
		fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("⚠"), ev.Message)
	}
}

// printResponseSummary prints the confidence line and, for live runs,
// token usage.
func printResponseSummary(eng *engine, resp *models.Response) {
	degraded := ""
	if resp.Metadata.Degraded {
		degraded = color.YellowString(" (degraded)")
	}
	fmt.Fprintf(os.Stderr, "%s confidence %.2f, %d step(s) across %d phase(s), %dms%s\n",
		color.GreenString("✓"), resp.Confidence,
		resp.Metadata.StepCount, resp.Metadata.PhaseCount,
		resp.Metadata.ProcessingTimeMS, degraded)

	if eng.tracker != nil {
		in, out := eng.tracker.Total()
		fmt.Fprintf(os.Stderr, "  tokens: %d in, %d out across %d call(s), ~$%.4f\n",
			in, out, eng.tracker.Calls(), eng.tracker.Cost())
	}
}
