package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gravitrone/shelf/cli/internal/controller"
	"github.com/gravitrone/shelf/cli/internal/ui/components"
)

const resetRedirectDelay = 2 * time.Second

// --- Messages ---

type loginDoneMsg struct {
	route controller.Route
	err   error
}
type registerDoneMsg struct {
	route controller.Route
	err   error
}
type forgotDoneMsg struct{ err error }
type resetDoneMsg struct {
	route controller.Route
	err   error
}

func renderForm(title, body string, errs map[string]string, width int) string {
	if msg := errs[controller.FieldSubmit]; msg != "" {
		body += "\n\n" + ErrorStyle.Render(components.SanitizeOneLine(msg))
	}
	return components.TitledBox(title, body, width)
}

// --- Login ---

type LoginModel struct {
	deps
	form       *controller.LoginForm
	fields     fieldSet
	submitting bool
	width      int
}

func NewLoginModel(d deps) LoginModel {
	return LoginModel{
		deps: d,
		form: controller.NewLoginForm(d.client, d.gate),
		fields: newFieldSet(
			textField(controller.FieldEmail, "Email", "you@example.com", 0),
			passwordField(controller.FieldPassword, "Password"),
		),
	}
}

func (m LoginModel) Init() tea.Cmd { return nil }

func (m LoginModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		m.submitting = false
		if msg.err != nil {
			return m, nil
		}
		return m, navigateTo(msg.route)

	case tea.KeyMsg:
		switch {
		case isEnter(msg):
			if m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, m.submit()
		case isKey(msg, "ctrl+r"):
			return m, navigateTo(controller.RouteRegister)
		case isKey(msg, "ctrl+f"):
			return m, navigateTo(controller.RouteForgotPassword)
		}
		var change *fieldChange
		var cmd tea.Cmd
		m.fields, change, cmd = m.fields.update(msg)
		if change != nil {
			m.form.ChangeField(change.key, change.value)
		}
		return m, cmd
	}
	return m, nil
}

func (m LoginModel) submit() tea.Cmd {
	ctx, form := m.ctx, m.form
	return func() tea.Msg {
		route, err := form.Submit(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return loginDoneMsg{route: route, err: err}
	}
}

func (m LoginModel) View() string {
	body := m.fields.view(nil)
	if m.submitting {
		body += "\n\n" + MutedStyle.Render("Logging in...")
	}
	return renderForm("Log in", body, fieldErrors(m.form.Err()), m.width)
}

func (m LoginModel) Hints() []string {
	return []string{
		components.Hint("tab", "Next"),
		components.Hint("enter", "Log in"),
		components.Hint("ctrl+r", "Register"),
		components.Hint("ctrl+f", "Forgot password"),
	}
}

func (m LoginModel) Capturing() bool { return true }

func (m LoginModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}

// --- Register ---

type RegisterModel struct {
	deps
	form       *controller.RegisterForm
	fields     fieldSet
	errs       map[string]string
	submitting bool
	width      int
}

func NewRegisterModel(d deps) RegisterModel {
	return RegisterModel{
		deps: d,
		form: controller.NewRegisterForm(d.client),
		fields: newFieldSet(
			textField(controller.FieldName, "Name", "", 0),
			textField(controller.FieldEmail, "Email", "you@example.com", 0),
			passwordField(controller.FieldPassword, "Password"),
			passwordField(controller.FieldConfirmPassword, "Confirm password"),
		),
	}
}

func (m RegisterModel) Init() tea.Cmd { return nil }

func (m RegisterModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case registerDoneMsg:
		m.submitting = false
		m.errs = m.form.Errors()
		if msg.err != nil {
			return m, nil
		}
		return m, func() tea.Msg {
			return navigateMsg{route: msg.route, notice: controller.NoticeRegistered}
		}

	case tea.KeyMsg:
		switch {
		case isBack(msg):
			return m, navigateTo(controller.RouteLogin)
		case isEnter(msg):
			if m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, m.submit()
		}
		var change *fieldChange
		var cmd tea.Cmd
		m.fields, change, cmd = m.fields.update(msg)
		if change != nil {
			m.form.ChangeField(change.key, change.value)
			delete(m.errs, change.key)
		}
		return m, cmd
	}
	return m, nil
}

func (m RegisterModel) submit() tea.Cmd {
	ctx, form := m.ctx, m.form
	return func() tea.Msg {
		route, err := form.Submit(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return registerDoneMsg{route: route, err: err}
	}
}

func (m RegisterModel) View() string {
	return renderForm("Create account", m.fields.view(m.errs), m.errs, m.width)
}

func (m RegisterModel) Hints() []string {
	return []string{
		components.Hint("tab", "Next"),
		components.Hint("enter", "Register"),
		components.Hint("esc", "Back to login"),
	}
}

func (m RegisterModel) Capturing() bool { return true }

func (m RegisterModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}

// --- Forgot password ---

type ForgotPasswordModel struct {
	deps
	form       *controller.ForgotPasswordForm
	fields     fieldSet
	submitting bool
	width      int
}

func NewForgotPasswordModel(d deps) ForgotPasswordModel {
	return ForgotPasswordModel{
		deps:   d,
		form:   controller.NewForgotPasswordForm(d.client),
		fields: newFieldSet(textField(controller.FieldEmail, "Email", "you@example.com", 0)),
	}
}

func (m ForgotPasswordModel) Init() tea.Cmd { return nil }

func (m ForgotPasswordModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case forgotDoneMsg:
		m.submitting = false
		if msg.err == nil {
			m.fields.set(controller.FieldEmail, "")
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case isBack(msg):
			return m, navigateTo(controller.RouteLogin)
		case isKey(msg, "ctrl+t"):
			return m, navigateTo(controller.RouteResetPassword)
		case isEnter(msg):
			if m.submitting {
				return m, nil
			}
			m.submitting = true
			return m, m.submit()
		}
		var change *fieldChange
		var cmd tea.Cmd
		m.fields, change, cmd = m.fields.update(msg)
		if change != nil {
			m.form.ChangeField(change.key, change.value)
		}
		return m, cmd
	}
	return m, nil
}

func (m ForgotPasswordModel) submit() tea.Cmd {
	ctx, form := m.ctx, m.form
	return func() tea.Msg {
		err := form.Submit(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return forgotDoneMsg{err: err}
	}
}

func (m ForgotPasswordModel) View() string {
	body := MutedStyle.Render("We will email you a link to reset your password.") + "\n\n" + m.fields.view(nil)
	if m.form.Sent() {
		body += "\n\n" + SuccessStyle.Render("Reset link sent. Check your inbox, then press ctrl+t to enter the token.")
	}
	return renderForm("Forgot password", body, fieldErrors(m.form.Err()), m.width)
}

func (m ForgotPasswordModel) Hints() []string {
	return []string{
		components.Hint("enter", "Send link"),
		components.Hint("ctrl+t", "I have a token"),
		components.Hint("esc", "Back to login"),
	}
}

func (m ForgotPasswordModel) Capturing() bool { return true }

func (m ForgotPasswordModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}

// --- Reset password ---

const fieldToken = "token"

// ResetPasswordModel sets a new password. A token that arrived with the
// route is fixed; otherwise the user pastes it into the first field.
type ResetPasswordModel struct {
	deps
	form       *controller.ResetPasswordForm
	fields     fieldSet
	pasteToken bool
	submitting bool
	width      int
}

func NewResetPasswordModel(d deps, token string) ResetPasswordModel {
	m := ResetPasswordModel{deps: d}
	token = strings.TrimSpace(token)
	if token == "" {
		m.pasteToken = true
		m.fields = newFieldSet(
			textField(fieldToken, "Reset token", "paste the token from the email", 0),
			passwordField(controller.FieldPassword, "New password"),
			passwordField(controller.FieldConfirmPassword, "Confirm new password"),
		)
		return m
	}
	m.form = controller.NewResetPasswordForm(d.client, token)
	m.fields = newFieldSet(
		passwordField(controller.FieldPassword, "New password"),
		passwordField(controller.FieldConfirmPassword, "Confirm new password"),
	)
	return m
}

func (m ResetPasswordModel) Init() tea.Cmd { return nil }

func (m ResetPasswordModel) Update(msg tea.Msg) (screenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case resetDoneMsg:
		m.submitting = false
		if msg.err != nil {
			return m, nil
		}
		route := msg.route
		return m, tea.Batch(
			toast("success", "Password updated. Redirecting to login..."),
			tea.Tick(resetRedirectDelay, func(time.Time) tea.Msg {
				return navigateMsg{route: route, from: controller.ScreenResetPassword}
			}),
		)

	case tea.KeyMsg:
		switch {
		case isBack(msg):
			return m, navigateTo(controller.RouteLogin)
		case isEnter(msg):
			if m.submitting || (m.form != nil && m.form.Done()) {
				return m, nil
			}
			m.bindForm()
			m.submitting = true
			return m, m.submit()
		}
		var change *fieldChange
		var cmd tea.Cmd
		m.fields, change, cmd = m.fields.update(msg)
		if change != nil && m.form != nil && change.key != fieldToken {
			m.form.ChangeField(change.key, change.value)
		}
		return m, cmd
	}
	return m, nil
}

// bindForm builds the form from a pasted token. The form keeps its token for
// life, so each submit with a pasted token starts from a fresh one.
func (m *ResetPasswordModel) bindForm() {
	if !m.pasteToken {
		return
	}
	m.form = controller.NewResetPasswordForm(m.client, m.fields.value(fieldToken))
	m.form.ChangeField(controller.FieldPassword, m.fields.value(controller.FieldPassword))
	m.form.ChangeField(controller.FieldConfirmPassword, m.fields.value(controller.FieldConfirmPassword))
}

func (m ResetPasswordModel) submit() tea.Cmd {
	ctx, form := m.ctx, m.form
	return func() tea.Msg {
		route, err := form.Submit(ctx)
		if ctx.Err() != nil {
			return nil
		}
		return resetDoneMsg{route: route, err: err}
	}
}

func (m ResetPasswordModel) View() string {
	var errs map[string]string
	if m.form != nil {
		errs = fieldErrors(m.form.Err())
	}
	body := m.fields.view(errs)
	if m.form != nil && m.form.Done() {
		body += "\n\n" + SuccessStyle.Render("Password updated.")
	}
	return renderForm("Reset password", body, errs, m.width)
}

func (m ResetPasswordModel) Hints() []string {
	return []string{
		components.Hint("tab", "Next"),
		components.Hint("enter", "Reset"),
		components.Hint("esc", "Back to login"),
	}
}

func (m ResetPasswordModel) Capturing() bool { return true }

func (m ResetPasswordModel) Resize(width, height int) screenModel {
	m.width = width
	return m
}
