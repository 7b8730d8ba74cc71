package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// InteractiveApp is the main model for interactive mode. It wraps the
// session monitor and adds an input field for submitting requests.
type InteractiveApp struct {
	monitor    *Monitor
	inputField *InputField
	width      int
	height     int
	quitting   bool

	// busy is true while a submitted request is still being answered.
	busy bool

	// Callback for when a request is submitted
	onSubmit func(input string)
}

// NewInteractiveApp creates a new InteractiveApp.
func NewInteractiveApp() *InteractiveApp {
	monitor := NewIdleMonitor()
	monitor.hideFooter = true

	return &InteractiveApp{
		monitor:    monitor,
		inputField: NewInputField(),
	}
}

// SetSubmitHandler sets the callback for request submissions. The
// handler runs on the update loop, so it must hand long work to a
// goroutine and report back through Send.
func (a *InteractiveApp) SetSubmitHandler(handler func(input string)) {
	a.onSubmit = handler
}

// Init implements tea.Model.
func (a *InteractiveApp) Init() tea.Cmd {
	return tea.Batch(a.monitor.Init(), a.inputField.Focus())
}

// Update implements tea.Model.
func (a *InteractiveApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.quitting = true
			return a, tea.Quit
		}
		// Every other key belongs to the input field; "q" is text here.
		var cmd tea.Cmd
		a.inputField, cmd = a.inputField.Update(msg)
		return a, cmd

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.inputField.SetWidth(msg.Width)
		_, cmd := a.monitor.Update(msg)
		return a, cmd

	case RequestSubmittedMsg:
		if a.busy {
			a.monitor.addLog(time.Now(), "WARN", "a request is already running")
			return a, nil
		}
		a.busy = true
		a.monitor.Reset(msg.Input)
		if a.onSubmit != nil {
			a.onSubmit(msg.Input)
		}
		return a, nil

	case ResponseMsg, SessionFailedMsg:
		a.busy = false
		_, cmd := a.monitor.Update(msg)
		return a, cmd

	case spinner.TickMsg, EventMsg, LogMsg:
		_, cmd := a.monitor.Update(msg)
		return a, cmd
	}

	return a, nil
}

// View implements tea.Model.
func (a *InteractiveApp) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	hint := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Render("Enter to submit · Ctrl+C to quit")

	return lipgloss.JoinVertical(lipgloss.Left,
		a.monitor.View(),
		a.inputField.View(),
		hint)
}

// Busy reports whether a submitted request is still in flight.
func (a *InteractiveApp) Busy() bool {
	return a.busy
}

// NewInteractiveProgram creates a new Bubbletea program for
// interactive mode.
func NewInteractiveProgram() (*tea.Program, *InteractiveApp) {
	app := NewInteractiveApp()
	p := tea.NewProgram(app, tea.WithAltScreen())
	return p, app
}
