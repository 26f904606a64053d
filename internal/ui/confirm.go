package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// confirmPromptMsg asks the App to show a yes/no dialog. The answer goes back
// on reply, which is buffered so answering never blocks the event loop.
type confirmPromptMsg struct {
	prompt string
	reply  chan bool
}

// dialogConfirmer implements controller.Confirmer on top of the App's dialog.
// Confirm runs inside a tea.Cmd goroutine and parks until the user answers
// or ctx ends.
type dialogConfirmer struct {
	requests chan confirmPromptMsg
	enabled  bool
}

func newDialogConfirmer(enabled bool) *dialogConfirmer {
	return &dialogConfirmer{requests: make(chan confirmPromptMsg), enabled: enabled}
}

func (c *dialogConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if !c.enabled {
		return true, nil
	}
	req := confirmPromptMsg{prompt: prompt, reply: make(chan bool, 1)}
	select {
	case c.requests <- req:
	case <-ctx.Done():
		return false, ctx.Err()
	}
	select {
	case ok := <-req.reply:
		return ok, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// next waits for the next prompt. The App re-arms it after every prompt.
func (c *dialogConfirmer) next() tea.Cmd {
	return func() tea.Msg {
		return <-c.requests
	}
}
