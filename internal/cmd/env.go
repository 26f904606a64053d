// Package cmd holds the headless shelf subcommands. They drive the same
// controllers as the TUI and print plain text.
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/config"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/session"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

// NotLoggedIn is printed when a command needs a session and there is none.
const NotLoggedIn = "not logged in. run 'shelf login' first."

// outputWidth is the width tables are laid out for.
const outputWidth = 88

// Env is what every subcommand runs against. The root command fills it in
// before any RunE, so constructors only keep the pointer.
type Env struct {
	Config         *config.Config
	Client         controller.API
	Gate           *session.Gate
	Log            *zap.Logger
	ConfirmDeletes bool
}

func (e *Env) logger() *zap.Logger {
	if e.Log == nil {
		return zap.NewNop()
	}
	return e.Log
}

// --- Errors ---

// userError carries the message shown to the user while keeping the cause
// for errors.Is.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Unwrap() error { return e.err }

// explain turns a controller or API error into what the user reads.
func explain(err error) error {
	if err == nil {
		return nil
	}
	var verr *controller.ValidationError
	switch {
	case errors.Is(err, session.ErrNoSession):
		return &userError{msg: NotLoggedIn, err: err}
	case errors.As(err, &verr):
		return &userError{msg: verr.Error(), err: err}
	case errors.Is(err, controller.ErrNotFound):
		return &userError{msg: "not found", err: err}
	}
	return &userError{msg: api.Message(err), err: err}
}

// --- Prompts ---

// prompter reads answers from the command's input. Secrets are read without
// echo when the input is a terminal.
type prompter struct {
	in       *bufio.Reader
	out      io.Writer
	terminal *os.File
}

func newPrompter(cmd *cobra.Command) *prompter {
	in := cmd.InOrStdin()
	p := &prompter{in: bufio.NewReader(in), out: cmd.OutOrStdout()}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.terminal = f
	}
	return p
}

func (p *prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// line asks for a value and trims it.
func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	s, err := p.readLine()
	return strings.TrimSpace(s), err
}

// secret asks for a password.
func (p *prompter) secret(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if p.terminal == nil {
		return p.readLine()
	}
	b, err := term.ReadPassword(int(p.terminal.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// Confirm implements controller.Confirmer as a y/N question.
func (p *prompter) Confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := p.line(prompt + " [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// confirmer picks how deletes are confirmed for one command run.
func (e *Env) confirmer(cmd *cobra.Command, yes bool) controller.Confirmer {
	if yes || !e.ConfirmDeletes {
		return controller.AlwaysConfirm
	}
	return newPrompter(cmd)
}

// --- Output ---

// printGrid writes rows as a table without the trailing padding.
func printGrid(out io.Writer, columns []components.GridColumn, rows [][]string) {
	grid := components.Grid(columns, rows, outputWidth, -1)
	for _, line := range strings.Split(grid, "\n") {
		fmt.Fprintln(out, strings.TrimRight(line, " "))
	}
}

func parseID(arg, what string) (api.ID, error) {
	id, err := api.ParseID(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s id %q", what, arg)
	}
	return id, nil
}
