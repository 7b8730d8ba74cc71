// Package tui provides the terminal user interface for maestro.
//
// The Monitor is a read-only view of one session working its way
// through the pipeline. It shows:
//   - The phases of the execution plan as they open and settle
//   - Each specialist step with its status, confidence and timing
//   - An activity log with recent pipeline events
//   - The fused response once the session finished
//
// Usage:
//
//	program, _ := tui.NewMonitorProgram(input)
//	go program.Run()
//
//	// Forward pipeline events
//	program.Send(tui.EventMsg{Event: ev})
//
//	// Deliver the outcome
//	program.Send(tui.ResponseMsg{Response: resp})
//	program.Send(tui.SessionFailedMsg{Err: err})
//
// InteractiveApp wraps the Monitor with an input field so requests
// can be submitted from inside the TUI. Submissions reach the caller
// through the handler set with SetSubmitHandler; the caller answers
// them in a goroutine and reports back through Send.
package tui
