package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/logging"
	"github.com/gravitrone/shelf/cli/internal/session"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

// --- Tabs ---

var tabs = []struct {
	name  string
	route controller.Route
}{
	{"Collections", controller.RouteDashboard},
	{"Social", controller.RouteSocial},
	{"Profile", controller.RouteProfile},
}

// --- Messages ---

// navigateMsg moves the App to route. A non-zero from drops the message
// unless that screen is still showing.
type navigateMsg struct {
	route  controller.Route
	notice string
	from   controller.Screen
}

type errMsg struct{ err error }
type clearToastMsg struct{}
type toastMsg struct {
	level string
	text  string
}
type loggedOutMsg struct{ err error }

type appToast struct {
	level string
	text  string
}

func navigateTo(route controller.Route) tea.Cmd {
	return func() tea.Msg { return navigateMsg{route: route} }
}

func reportErr(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return func() tea.Msg { return errMsg{err: err} }
}

func toast(level, text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{level: level, text: text} }
}

// msgSessionExpired replaces ErrNoSession wherever a screen shows an error.
const msgSessionExpired = "session expired, log in again"

// errorText is the user-facing message for err.
func errorText(err error) string {
	if err == nil {
		return ""
	}
	var verr *controller.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, session.ErrNoSession):
		return msgSessionExpired
	case errors.Is(err, controller.ErrNotFound):
		return "not found"
	}
	return api.Message(err)
}

// fieldErrors spreads err over form fields. Anything that is not a field
// validation lands under controller.FieldSubmit.
func fieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	var verr *controller.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return map[string]string{controller.FieldSubmit: errorText(err)}
}

// --- Screens ---

// Sessions is the session gate the TUI needs. *session.Gate implements it.
type Sessions interface {
	controller.Sessions
	Logout(ctx context.Context) error
}

// deps is what every screen model is built from. ctx ends when the App
// leaves the screen, so late results are dropped.
type deps struct {
	ctx     context.Context
	client  controller.API
	gate    Sessions
	confirm controller.Confirmer
	log     *zap.Logger
}

type screenModel interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screenModel, tea.Cmd)
	View() string
	Hints() []string
	// Capturing reports whether printable keys belong to a text input.
	Capturing() bool
	Resize(width, height int) screenModel
}

// --- App Model ---

// App is the root TUI model. It owns navigation, the confirm dialog and
// transient feedback, and delegates everything else to the current screen.
type App struct {
	client  controller.API
	gate    Sessions
	log     *zap.Logger
	confirm *dialogConfirmer
	start   controller.Route

	root   context.Context
	stop   context.CancelFunc
	cancel context.CancelFunc

	route   controller.Route
	screen  controller.Screen
	current screenModel

	width    int
	height   int
	err      string
	toast    *appToast
	prompt   *confirmPromptMsg
	helpOpen bool
}

// NewApp creates the root application model. The first screen is the
// dashboard, which sends anonymous users on to the login screen.
func NewApp(client controller.API, gate Sessions, confirmDeletes bool, log *zap.Logger) App {
	root, stop := context.WithCancel(context.Background())
	return App{
		client:  client,
		gate:    gate,
		log:     logging.OrNop(log).Named("ui"),
		confirm: newDialogConfirmer(confirmDeletes),
		start:   controller.RouteDashboard,
		root:    root,
		stop:    stop,
	}
}

// WithStart makes the App open at route instead of the dashboard.
func (a App) WithStart(route controller.Route) App {
	a.start = route
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(a.confirm.next(), navigateTo(a.start))
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.current != nil {
			a.current = a.current.Resize(msg.Width, msg.Height)
		}
		return a, nil

	case navigateMsg:
		if msg.from != controller.ScreenUnknown && msg.from != a.screen {
			return a, nil
		}
		cmd := a.navigate(msg.route)
		if msg.notice != "" {
			cmd = tea.Batch(cmd, a.setToast("success", msg.notice))
		}
		return a, cmd

	case errMsg:
		a.err = errorText(msg.err)
		return a, nil
	case toastMsg:
		return a, a.setToast(msg.level, msg.text)
	case clearToastMsg:
		a.toast = nil
		return a, nil

	case confirmPromptMsg:
		// A newer prompt declines the one still on screen.
		if a.prompt != nil {
			a.answer(false)
		}
		a.prompt = &msg
		return a, a.confirm.next()

	case loggedOutMsg:
		if msg.err != nil {
			a.err = errorText(msg.err)
			return a, nil
		}
		return a, tea.Batch(a.navigate(controller.RouteLogin), a.setToast("info", "Logged out"))

	case tea.KeyMsg:
		if a.prompt != nil {
			switch {
			case isKey(msg, "y"):
				a.answer(true)
			case isKey(msg, "n"), isBack(msg):
				a.answer(false)
			}
			return a, nil
		}
		if a.helpOpen {
			if isBack(msg) || isKey(msg, "?") {
				a.helpOpen = false
			}
			return a, nil
		}
		if isKey(msg, "ctrl+c") {
			a.stop()
			return a, tea.Quit
		}
		if a.err != "" {
			a.err = ""
		}

		if !a.capturing() {
			if isQuit(msg) {
				a.stop()
				return a, tea.Quit
			}
			if isKey(msg, "?") {
				a.helpOpen = true
				return a, nil
			}
			if a.screen.Protected() {
				if idx, ok := tabIndexForKey(msg.String()); ok {
					return a, a.navigate(tabs[idx].route)
				}
				if isKey(msg, "L") {
					return a, a.logoutCmd()
				}
			}
		}
	}

	if a.current == nil {
		return a, nil
	}
	var cmd tea.Cmd
	a.current, cmd = a.current.Update(msg)
	return a, cmd
}

func (a App) View() string {
	banner := centerBlockUniform(RenderBanner(), a.width)
	tabRow := ""
	if a.screen.Protected() {
		tabRow = "\n" + centerBlockUniform(a.renderTabs(), a.width)
	}

	content := ""
	if a.current != nil {
		content = a.current.View()
	}
	if a.prompt != nil {
		content = components.Indent(components.ConfirmDialog("Confirm", components.SanitizeText(a.prompt.prompt)), 1)
	} else if a.helpOpen {
		content = a.renderHelp()
	}
	content = centerBlockUniform(content, a.width)

	hints := components.StatusBar(a.statusHints(), a.width)

	feedback := ""
	if a.err != "" {
		feedback = "\n\n" + centerBlockUniform(components.ErrorBox("Error", a.err, a.width), a.width)
	} else if a.toast != nil {
		feedback = "\n\n" + centerBlockUniform(a.renderToast(), a.width)
	}

	return fmt.Sprintf("%s%s\n\n%s\n\n\n%s%s", banner, tabRow, content, hints, feedback)
}

// navigate swaps in the screen for route and cancels the old screen's work.
func (a *App) navigate(route controller.Route) tea.Cmd {
	dest, err := route.Resolve()
	if err != nil {
		a.log.Warn("bad route", zap.String("route", string(route)), zap.Error(err))
		a.err = err.Error()
		return nil
	}
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(a.root)
	a.cancel = cancel
	a.route = route
	a.screen = dest.Screen
	a.err = ""
	a.helpOpen = false
	if a.prompt != nil {
		a.answer(false)
	}

	d := deps{ctx: ctx, client: a.client, gate: a.gate, confirm: a.confirm, log: a.log}
	switch dest.Screen {
	case controller.ScreenLogin:
		a.current = NewLoginModel(d)
	case controller.ScreenRegister:
		a.current = NewRegisterModel(d)
	case controller.ScreenForgotPassword:
		a.current = NewForgotPasswordModel(d)
	case controller.ScreenResetPassword:
		a.current = NewResetPasswordModel(d, dest.Token)
	case controller.ScreenDashboard:
		a.current = NewDashboardModel(d)
	case controller.ScreenCollection:
		a.current = NewCollectionModel(d, dest.CollectionID)
	case controller.ScreenSocial:
		a.current = NewSocialModel(d)
	case controller.ScreenSocialUser:
		a.current = NewSocialUserModel(d, dest.UserID)
	case controller.ScreenSocialCollection:
		a.current = NewSocialCollectionModel(d, dest.UserID, dest.CollectionID)
	case controller.ScreenProfile:
		a.current = NewProfileModel(d)
	}
	a.log.Debug("navigate", zap.String("route", string(route)))
	a.current = a.current.Resize(a.width, a.height)
	return a.current.Init()
}

func (a *App) answer(ok bool) {
	a.prompt.reply <- ok
	a.prompt = nil
}

func (a App) capturing() bool {
	return a.current != nil && a.current.Capturing()
}

func (a App) logoutCmd() tea.Cmd {
	gate, ctx := a.gate, a.root
	return func() tea.Msg {
		return loggedOutMsg{err: gate.Logout(ctx)}
	}
}

func (a App) renderTabs() string {
	active := a.activeTab()
	segments := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.name)
		if i == active {
			segments = append(segments, TabActiveStyle.Render(label))
		} else {
			segments = append(segments, TabInactiveStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, segments...)
}

func (a App) activeTab() int {
	switch a.screen {
	case controller.ScreenSocial, controller.ScreenSocialUser, controller.ScreenSocialCollection:
		return 1
	case controller.ScreenProfile:
		return 2
	}
	return 0
}

func (a App) statusHints() []string {
	if a.prompt != nil {
		return []string{
			components.Hint("y", "Confirm"),
			components.Hint("n", "Cancel"),
		}
	}
	if a.helpOpen {
		return []string{
			components.Hint("esc", "Back"),
		}
	}
	var hints []string
	if a.current != nil {
		hints = append(hints, a.current.Hints()...)
	}
	if a.capturing() {
		return append(hints, components.Hint("ctrl+c", "Quit"))
	}
	if a.screen.Protected() {
		hints = append(hints, components.Hint("1-3", "Tabs"), components.Hint("L", "Logout"))
	}
	return append(hints, components.Hint("?", "Help"), components.Hint("q", "Quit"))
}

func (a App) renderHelp() string {
	hints := a.statusHints()
	if a.current != nil {
		hints = a.current.Hints()
	}
	lines := make([]string, 0, len(hints)+2)
	lines = append(lines, MutedStyle.Render("esc to close"))
	lines = append(lines, "")
	for _, hint := range hints {
		lines = append(lines, "  "+hint)
	}
	body := strings.Join(lines, "\n")
	return components.Indent(components.TitledBox("Help", body, a.width), 1)
}

func (a *App) setToast(level, text string) tea.Cmd {
	a.toast = &appToast{
		level: level,
		text:  components.SanitizeOneLine(text),
	}
	return tea.Tick(2500*time.Millisecond, func(time.Time) tea.Msg {
		return clearToastMsg{}
	})
}

func (a App) renderToast() string {
	if a.toast == nil {
		return ""
	}
	title := "Info"
	switch a.toast.level {
	case "success":
		title = "Success"
	case "warning":
		title = "Warning"
	case "error":
		return components.ErrorBox("Error", a.toast.text, a.width)
	}
	return components.TitledBox(title, a.toast.text, a.width)
}

func centerBlockUniform(s string, width int) string {
	if width <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	maxWidth := 0
	for _, line := range lines {
		w := lipgloss.Width(line)
		if w > maxWidth {
			maxWidth = w
		}
	}
	if maxWidth <= 0 || maxWidth >= width {
		return s
	}
	pad := (width - maxWidth) / 2
	if pad <= 0 {
		return s
	}
	prefix := strings.Repeat(" ", pad)
	for i := range lines {
		if lines[i] != "" {
			lines[i] = prefix + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}

func tabIndexForKey(key string) (int, bool) {
	switch key {
	case "1":
		return 0, true
	case "2":
		return 1, true
	case "3":
		return 2, true
	}
	return 0, false
}
