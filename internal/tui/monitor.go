package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ckeeney/maestro/internal/orchestrator"
	"github.com/ckeeney/maestro/pkg/models"
)

// Step display states.
const (
	stepRunning  = "running"
	stepRetrying = "retrying"
	stepDone     = "done"
	stepFailed   = "failed"
)

// EventMsg wraps a pipeline event for the TUI.
type EventMsg struct {
	Event orchestrator.Event
}

// ResponseMsg delivers the fused response once the session finished.
type ResponseMsg struct {
	Response *models.Response
}

// SessionFailedMsg signals that the session ended without a response.
type SessionFailedMsg struct {
	Err error
}

// LogMsg adds a line to the activity log.
type LogMsg struct {
	Level   string
	Message string
}

// LogEntry is one line in the activity log.
type LogEntry struct {
	Timestamp time.Time
	Level     string
	Message   string
}

// stepRow tracks the display state of one plan step.
type stepRow struct {
	StepID       string
	SpecialistID string
	Phase        models.Phase
	Status       string
	Attempt      int
	Confidence   float64
	Duration     time.Duration
	Err          string
}

// phaseRow tracks one phase of the plan as it opens and settles.
type phaseRow struct {
	Phase models.Phase
	Done  bool
}

// Monitor is the bubbletea model for watching one session run. It
// consumes pipeline events and renders the phases, the specialist
// steps, an activity log, and finally the fused response.
type Monitor struct {
	input     string
	sessionID string
	started   time.Time
	elapsed   time.Duration

	phases   []phaseRow
	steps    []*stepRow
	logs     []LogEntry
	degraded bool

	response *models.Response
	err      error

	spin     spinner.Model
	width    int
	height   int
	active   bool
	done     bool
	quitting bool
	// hideFooter suppresses the key hints when the monitor is embedded
	// under an input field.
	hideFooter bool

	// Styles
	titleStyle   lipgloss.Style
	labelStyle   lipgloss.Style
	valueStyle   lipgloss.Style
	dimStyle     lipgloss.Style
	okStyle      lipgloss.Style
	warnStyle    lipgloss.Style
	failStyle    lipgloss.Style
	logTimeStyle lipgloss.Style
	logStyle     lipgloss.Style
	boxStyle     lipgloss.Style
}

// NewMonitor creates a Monitor for a request already in flight.
func NewMonitor(input string) *Monitor {
	m := NewIdleMonitor()
	m.input = input
	m.active = true
	return m
}

// NewIdleMonitor creates a Monitor with no session yet. Reset starts
// one; interactive mode uses this between requests.
func NewIdleMonitor() *Monitor {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	return &Monitor{
		started: time.Now(),
		spin:    sp,
		width:   80,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),

		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(12),

		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true),

		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		okStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("34")),

		warnStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),

		failStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")),

		logTimeStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")),

		logStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),

		boxStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1),
	}
}

// Reset clears the session state and starts tracking a new request.
func (m *Monitor) Reset(input string) {
	m.input = input
	m.sessionID = ""
	m.started = time.Now()
	m.elapsed = 0
	m.phases = nil
	m.steps = nil
	m.degraded = false
	m.response = nil
	m.err = nil
	m.active = true
	m.done = false
}

// Init implements tea.Model.
func (m *Monitor) Init() tea.Cmd {
	return m.spin.Tick
}

// Update implements tea.Model.
func (m *Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case EventMsg:
		m.handleEvent(msg.Event)

	case LogMsg:
		m.addLog(time.Now(), msg.Level, msg.Message)

	case ResponseMsg:
		m.response = msg.Response
		m.finish()

	case SessionFailedMsg:
		m.err = msg.Err
		m.finish()
	}

	return m, nil
}

// finish freezes the elapsed clock and marks the session done.
func (m *Monitor) finish() {
	m.elapsed = time.Since(m.started)
	m.done = true
}

// handleEvent folds one pipeline event into the display state.
func (m *Monitor) handleEvent(ev orchestrator.Event) {
	switch ev.Type {
	case orchestrator.EventSessionStarted:
		m.sessionID = ev.SessionID
		m.started = ev.Timestamp
		m.addLog(ev.Timestamp, "INFO", "session started")

	case orchestrator.EventPlanCreated:
		m.addLog(ev.Timestamp, "INFO", ev.Message)

	case orchestrator.EventPhaseStarted:
		m.phases = append(m.phases, phaseRow{Phase: ev.Phase})
		m.addLog(ev.Timestamp, "INFO", fmt.Sprintf("phase %s started", ev.Phase))

	case orchestrator.EventPhaseCompleted:
		for i := range m.phases {
			if m.phases[i].Phase == ev.Phase {
				m.phases[i].Done = true
			}
		}
		m.addLog(ev.Timestamp, "INFO", fmt.Sprintf("phase %s completed", ev.Phase))

	case orchestrator.EventStepStarted:
		row := m.findOrCreateStep(ev.StepID)
		row.SpecialistID = ev.SpecialistID
		row.Phase = ev.Phase
		row.Status = stepRunning

	case orchestrator.EventStepRetrying:
		row := m.findOrCreateStep(ev.StepID)
		row.Status = stepRetrying
		row.Attempt = ev.Attempt
		m.addLog(ev.Timestamp, "WARN",
			fmt.Sprintf("%s retrying, attempt %d", ev.SpecialistID, ev.Attempt))

	case orchestrator.EventStepCompleted:
		row := m.findOrCreateStep(ev.StepID)
		row.Status = stepDone
		row.Confidence = ev.Confidence
		row.Duration = ev.Duration
		m.addLog(ev.Timestamp, "INFO",
			fmt.Sprintf("%s finished in %s", ev.SpecialistID, ev.Duration.Round(time.Millisecond)))

	case orchestrator.EventStepFailed:
		row := m.findOrCreateStep(ev.StepID)
		row.Status = stepFailed
		if ev.Error != nil {
			row.Err = ev.Error.Error()
		}
		m.addLog(ev.Timestamp, "ERROR",
			fmt.Sprintf("%s failed: %s", ev.SpecialistID, row.Err))

	case orchestrator.EventExecutionDegraded:
		m.degraded = true
		m.addLog(ev.Timestamp, "WARN", ev.Message)

	case orchestrator.EventResponseReady:
		m.addLog(ev.Timestamp, "INFO", "response ready")

	case orchestrator.EventSessionClosed:
		m.addLog(ev.Timestamp, "INFO", "session closed")
	}
}

// findOrCreateStep finds a step row by ID or creates a new one.
func (m *Monitor) findOrCreateStep(stepID string) *stepRow {
	for _, row := range m.steps {
		if row.StepID == stepID {
			return row
		}
	}
	row := &stepRow{StepID: stepID}
	m.steps = append(m.steps, row)
	return row
}

// addLog appends an activity log entry.
func (m *Monitor) addLog(ts time.Time, level, message string) {
	if ts.IsZero() {
		ts = time.Now()
	}
	m.logs = append(m.logs, LogEntry{Timestamp: ts, Level: level, Message: message})
}

// View implements tea.Model.
func (m *Monitor) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.titleStyle.Render("=== Maestro ==="))
	b.WriteString("\n\n")

	if !m.active {
		b.WriteString(m.dimStyle.Render("Type a request to consult the specialists."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.labelStyle.Render("Request:"))
	b.WriteString(m.valueStyle.Render(truncate(m.input, 64)))
	b.WriteString("\n")

	if m.sessionID != "" {
		b.WriteString(m.labelStyle.Render("Session:"))
		b.WriteString(m.dimStyle.Render(m.sessionID))
		b.WriteString("\n")
	}

	b.WriteString(m.labelStyle.Render("Elapsed:"))
	b.WriteString(m.valueStyle.Render(m.elapsedNow().Round(100 * time.Millisecond).String()))
	b.WriteString("\n\n")

	if len(m.phases) > 0 {
		b.WriteString(m.labelStyle.Render("Phases:"))
		b.WriteString(m.renderPhases())
		b.WriteString("\n")
	}

	if len(m.steps) > 0 {
		b.WriteString(m.labelStyle.Render("Specialists:"))
		b.WriteString("\n")
		for _, row := range m.steps {
			b.WriteString(m.renderStep(row))
			b.WriteString("\n")
		}
	}

	if m.degraded {
		b.WriteString("\n")
		b.WriteString(m.warnStyle.Render("⚠ deadline reached, response fused from partial results"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderLogs())

	if m.done && m.response != nil {
		b.WriteString("\n")
		b.WriteString(m.renderResponse())
	}

	// Status footer
	b.WriteString("\n")
	switch {
	case m.done && m.err != nil:
		b.WriteString(m.failStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.done && !m.hideFooter:
		b.WriteString(m.okStyle.Render(
			fmt.Sprintf("Response ready in %s. Press q to exit.", m.elapsed.Round(10*time.Millisecond))))
		b.WriteString("\n")
	case m.done:
		b.WriteString(m.okStyle.Render(
			fmt.Sprintf("Response ready in %s.", m.elapsed.Round(10*time.Millisecond))))
		b.WriteString("\n")
	case !m.hideFooter:
		b.WriteString(m.dimStyle.Render("Press q to cancel"))
		b.WriteString("\n")
	}

	return b.String()
}

// elapsedNow returns the frozen duration once done, wall time before.
func (m *Monitor) elapsedNow() time.Duration {
	if m.done {
		return m.elapsed
	}
	return time.Since(m.started)
}

// renderPhases renders the phase marks on one line.
func (m *Monitor) renderPhases() string {
	parts := make([]string, 0, len(m.phases))
	for _, p := range m.phases {
		switch {
		case p.Done:
			parts = append(parts, m.okStyle.Render("✓ ")+string(p.Phase))
		case m.done:
			parts = append(parts, m.dimStyle.Render("· "+string(p.Phase)))
		default:
			parts = append(parts, m.spin.View()+" "+string(p.Phase))
		}
	}
	return strings.Join(parts, "   ")
}

// renderStep renders one specialist step line.
func (m *Monitor) renderStep(row *stepRow) string {
	name := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Bold(true).
		Width(10).
		Render(truncate(row.SpecialistID, 10))
	phase := m.dimStyle.Width(10).Render(string(row.Phase))

	var mark, detail string
	switch row.Status {
	case stepDone:
		mark = m.okStyle.Render("✓")
		detail = fmt.Sprintf("conf %.2f  %s", row.Confidence, row.Duration.Round(time.Millisecond))
	case stepFailed:
		mark = m.failStyle.Render("✗")
		detail = m.failStyle.Render(truncate(row.Err, 48))
	case stepRetrying:
		mark = m.warnStyle.Render("↻")
		detail = m.warnStyle.Render(fmt.Sprintf("retry %d", row.Attempt))
	default:
		mark = m.spin.View()
	}

	return fmt.Sprintf("  %s %s %s %s", mark, name, phase, detail)
}

// renderLogs renders the recent activity log entries.
func (m *Monitor) renderLogs() string {
	if len(m.logs) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("252")).
		Render("Activity Log"))
	b.WriteString("\n")

	// Show last 8 log entries
	start := 0
	if len(m.logs) > 8 {
		start = len(m.logs) - 8
	}

	for _, entry := range m.logs[start:] {
		ts := m.logTimeStyle.Render(entry.Timestamp.Format("15:04:05"))
		level := entry.Level
		switch level {
		case "ERROR":
			level = m.failStyle.Render(level)
		case "WARN":
			level = m.warnStyle.Render(level)
		default:
			level = m.dimStyle.Render(level)
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n", ts, level, m.logStyle.Render(entry.Message)))
	}

	return b.String()
}

// renderResponse renders the fused response in a box.
func (m *Monitor) renderResponse() string {
	var b strings.Builder
	header := fmt.Sprintf("Response  (confidence %.2f)", m.response.Confidence)
	if m.response.Metadata.Degraded {
		header += "  degraded"
	}
	b.WriteString(lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("34")).
		Render(header))
	b.WriteString("\n")

	width := m.width - 4
	if width < 20 {
		width = 20
	}
	b.WriteString(m.boxStyle.Width(width).Render(m.response.Content))
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s for single-line display.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// NewMonitorProgram creates a Bubbletea program for watching one
// session. Events are forwarded from outside via Send.
func NewMonitorProgram(input string) (*tea.Program, *Monitor) {
	m := NewMonitor(input)
	p := tea.NewProgram(m, tea.WithAltScreen())
	return p, m
}
