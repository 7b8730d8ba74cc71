package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ckeeney/maestro/internal/config"
	"github.com/ckeeney/maestro/internal/state"
)

var (
	sessionsLimit int
	purgeDays     int
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List archived sessions",
	Long: `List sessions from the archive, newest first.

Every request maestro answers is archived with its fused response and
per-specialist step results. Use 'sessions show' for one session's
detail and 'sessions purge' to drop sessions past the retention window.`,
	RunE: runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show one archived session with its steps",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete sessions older than the retention window",
	RunE:  runSessionsPurge,
}

func init() {
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 10, "Maximum number of sessions to list")
	sessionsPurgeCmd.Flags().IntVar(&purgeDays, "days", 0, "Retention window in days (defaults to archive.retention_days)")

	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsPurgeCmd)
}

// openArchive opens the session archive at the configured path. A nil
// DB with nil error means nothing has been recorded yet.
func openArchive(cfg *config.Config) (*state.DB, error) {
	if _, err := os.Stat(cfg.Archive.Path); err != nil {
		return nil, nil
	}

	db, err := state.Open(cfg.Archive.Path)
	if err != nil {
		return nil, fmt.Errorf("open session archive: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session archive: %w", err)
	}
	return db, nil
}

func runSessionsList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openArchive(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Println("No sessions recorded yet. Run 'maestro ask' to start.")
		return nil
	}
	defer db.Close()

	sessions, err := db.ListSessions(sessionsLimit)
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet. Run 'maestro ask' to start.")
		return nil
	}

	fmt.Println("Recent sessions:")
	for _, s := range sessions {
		elapsed := formatDuration(time.Since(s.StartedAt))
		fmt.Printf("  %s  %s  conf %.2f  %s ago  %q\n",
			s.ID, formatStatus(s.Status), s.Confidence, elapsed, truncateInput(s.Input, 48))
	}

	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openArchive(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Println("No sessions recorded yet. Run 'maestro ask' to start.")
		return nil
	}
	defer db.Close()

	s, err := db.GetSession(args[0])
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if s == nil {
		return fmt.Errorf("session %s not found", args[0])
	}

	steps, err := db.StepsForSession(s.ID)
	if err != nil {
		return fmt.Errorf("load steps: %w", err)
	}

	fmt.Printf("Session %s\n", s.ID)
	fmt.Printf("  Status:      %s\n", formatStatus(s.Status))
	fmt.Printf("  Started:     %s (%s ago)\n", s.StartedAt.Local().Format("2006-01-02 15:04:05"), formatDuration(time.Since(s.StartedAt)))
	if s.UserID != "" {
		fmt.Printf("  User:        %s\n", s.UserID)
	}
	fmt.Printf("  Input:       %s\n", s.Input)
	fmt.Printf("  Complexity:  %d\n", s.Complexity)
	fmt.Printf("  Confidence:  %.2f\n", s.Confidence)
	fmt.Printf("  Phases:      %d (%d steps)\n", s.PhaseCount, s.StepCount)
	if len(s.ModelsUsed) > 0 {
		fmt.Printf("  Models:      %s\n", strings.Join(s.ModelsUsed, ", "))
	}
	if s.ProcessingMS > 0 {
		fmt.Printf("  Duration:    %s\n", (time.Duration(s.ProcessingMS) * time.Millisecond).Round(100*time.Millisecond))
	}
	if s.Degraded {
		fmt.Printf("  Degraded:    %s\n", color.YellowString("yes (deadline cut execution short)"))
	}

	if len(steps) > 0 {
		fmt.Println("\nSteps:")
		for _, st := range steps {
			if st.Success {
				fmt.Printf("  %s %-10s %-10s conf %.2f  %s\n",
					color.GreenString("✓"), st.SpecialistID, st.Phase, st.Confidence,
					(time.Duration(st.DurationMS) * time.Millisecond).Round(10*time.Millisecond))
			} else {
				fmt.Printf("  %s %-10s %-10s %s\n",
					color.RedString("✗"), st.SpecialistID, st.Phase, st.Error)
			}
		}
	}

	if s.Content != "" {
		fmt.Println("\nResponse:")
		fmt.Println(s.Content)
	}

	return nil
}

func runSessionsPurge(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := openArchive(cfg)
	if err != nil {
		return err
	}
	if db == nil {
		fmt.Println("No sessions recorded yet; nothing to purge.")
		return nil
	}
	defer db.Close()

	days := purgeDays
	if days <= 0 {
		days = cfg.Archive.RetentionDays
	}
	if days <= 0 {
		return fmt.Errorf("retention window must be positive (got %d days)", days)
	}

	n, err := db.PurgeOldSessions(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}

	fmt.Printf("Purged %d session(s) older than %dd.\n", n, days)
	return nil
}

// formatStatus colors a session status for terminal display.
func formatStatus(status state.SessionStatus) string {
	switch status {
	case state.SessionCompleted:
		return color.GreenString(string(status))
	case state.SessionFailed:
		return color.RedString(string(status))
	default:
		return color.YellowString(string(status))
	}
}

// truncateInput shortens a request input for one-line display.
func truncateInput(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		h := int(d.Hours())
		m := int(d.Minutes()) % 60
		if m > 0 {
			return fmt.Sprintf("%dh%dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days := int(d.Hours()) / 24
	return fmt.Sprintf("%dd", days)
}
