package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ckeeney/maestro/pkg/models"
)

func TestInteractiveApp_SubmitRunsHandler(t *testing.T) {
	app := NewInteractiveApp()

	var got string
	app.SetSubmitHandler(func(input string) {
		got = input
	})

	app.Update(RequestSubmittedMsg{Input: "first question"})

	if got != "first question" {
		t.Errorf("handler got %q, want %q", got, "first question")
	}
	if !app.Busy() {
		t.Error("app not busy after submit")
	}
	if app.monitor.input != "first question" {
		t.Errorf("monitor input = %q", app.monitor.input)
	}
}

func TestInteractiveApp_IgnoresSubmitWhileBusy(t *testing.T) {
	app := NewInteractiveApp()

	var calls int
	app.SetSubmitHandler(func(string) {
		calls++
	})

	app.Update(RequestSubmittedMsg{Input: "first"})
	app.Update(RequestSubmittedMsg{Input: "second"})

	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
	if app.monitor.input != "first" {
		t.Errorf("monitor input = %q, want %q", app.monitor.input, "first")
	}
}

func TestInteractiveApp_ResponseClearsBusy(t *testing.T) {
	app := NewInteractiveApp()
	app.SetSubmitHandler(func(string) {})

	app.Update(RequestSubmittedMsg{Input: "question"})
	app.Update(ResponseMsg{Response: &models.Response{Content: "answer", Confidence: 0.7}})

	if app.Busy() {
		t.Error("app still busy after response")
	}
	if !strings.Contains(app.View(), "answer") {
		t.Error("response not rendered")
	}

	// A new submission is accepted again
	var got string
	app.SetSubmitHandler(func(input string) { got = input })
	app.Update(RequestSubmittedMsg{Input: "followup"})
	if got != "followup" {
		t.Errorf("handler got %q, want %q", got, "followup")
	}
}

func TestInteractiveApp_EnterSubmitsTypedText(t *testing.T) {
	app := NewInteractiveApp()

	typed := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello sage")}
	app.Update(typed)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected command from enter")
	}

	result := cmd()
	submitted, ok := result.(RequestSubmittedMsg)
	if !ok {
		t.Fatalf("Expected RequestSubmittedMsg, got %T", result)
	}
	if submitted.Input != "hello sage" {
		t.Errorf("Input = %q, want %q", submitted.Input, "hello sage")
	}
}

func TestInteractiveApp_CtrlCQuits(t *testing.T) {
	app := NewInteractiveApp()

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if !app.quitting {
		t.Error("quitting not set")
	}
	if app.View() != "Goodbye!\n" {
		t.Errorf("View = %q", app.View())
	}
}

func TestInteractiveApp_QIsTextNotQuit(t *testing.T) {
	app := NewInteractiveApp()

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})

	if app.quitting {
		t.Error("q must type into the input field, not quit")
	}
	if app.inputField.input.Value() != "q" {
		t.Errorf("input = %q, want %q", app.inputField.input.Value(), "q")
	}
}
