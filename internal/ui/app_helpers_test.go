package ui

import (
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/api/apitest"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/session"
)

// --- Test Harness ---

type harness struct {
	backend *apitest.Backend
	gate    *session.Gate
	ctx     context.Context
	cancel  context.CancelFunc
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &harness{
		backend: apitest.New(t),
		gate:    session.NewGate(session.NewMemoryStore()),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// login registers ana with the backend and stores her session.
func (h *harness) login(t *testing.T) api.User {
	t.Helper()
	u := h.backend.AddUser("Ana", "ana@x.io", "secret")
	require.NoError(t, h.gate.Login(context.Background(), u))
	return u
}

func (h *harness) deps(t *testing.T) deps {
	return deps{
		ctx:     h.ctx,
		client:  h.backend.Client(),
		gate:    h.gate,
		confirm: controller.AlwaysConfirm,
		log:     zaptest.NewLogger(t),
	}
}

func (h *harness) app(t *testing.T, confirmDeletes bool) App {
	return NewApp(h.backend.Client(), h.gate, confirmDeletes, zaptest.NewLogger(t))
}

// msgsOf runs cmd, unpacking batches, and returns what it produced.
func msgsOf(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, msgsOf(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// step feeds every message cmd produces into m and returns the messages the
// follow-up commands produce.
func step(t *testing.T, m screenModel, cmd tea.Cmd) (screenModel, []tea.Msg) {
	t.Helper()
	var out []tea.Msg
	for _, msg := range msgsOf(cmd) {
		var next tea.Cmd
		m, next = m.Update(msg)
		out = append(out, msgsOf(next)...)
	}
	return m, out
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m screenModel, s string) screenModel {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m screenModel, key tea.KeyType) (screenModel, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: key})
}

// routesIn returns the routes of the navigateMsgs among msgs.
func routesIn(msgs []tea.Msg) []controller.Route {
	var out []controller.Route
	for _, msg := range msgs {
		if nav, ok := msg.(navigateMsg); ok {
			out = append(out, nav.route)
		}
	}
	return out
}

func updateApp(a App, msg tea.Msg) (App, tea.Cmd) {
	model, cmd := a.Update(msg)
	return model.(App), cmd
}

// --- Helpers ---

func TestCenterBlockUniformPadsEveryLineEqually(t *testing.T) {
	out := centerBlockUniform("hi\nworld", 11)

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "   hi", lines[0])
	assert.Equal(t, "   world", lines[1])
}

func TestCenterBlockUniformLeavesWideBlocksUnchanged(t *testing.T) {
	in := "0123456789"
	assert.Equal(t, in, centerBlockUniform(in, 5))
	assert.Equal(t, in, centerBlockUniform(in, 0))
}

func TestErrorTextPrefersValidationThenAPIMessage(t *testing.T) {
	assert.Equal(t, "", errorText(nil))
	assert.Equal(t, "Invalid credentials", errorText(&api.Error{Kind: api.KindUnauthorized, Message: "Invalid credentials"}))

	errs := fieldErrors(&api.Error{Message: "Email already registered"})
	assert.Equal(t, "Email already registered", errs[controller.FieldSubmit])
}

func TestErrorTextNeverShowsRawSentinels(t *testing.T) {
	assert.Equal(t, msgSessionExpired, errorText(fmt.Errorf("save: %w", session.ErrNoSession)))
	assert.Equal(t, "not found", errorText(controller.ErrNotFound))
	assert.Equal(t, api.MsgConnection, errorText(context.DeadlineExceeded))

	errs := fieldErrors(session.ErrNoSession)
	assert.Equal(t, msgSessionExpired, errs[controller.FieldSubmit])
}
