package controller

import (
	"context"
	"maps"
	"regexp"
	"strings"
	"sync"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// Auth form field names.
const (
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

const (
	NoticeRegistered = "registration complete, log in to continue"

	minNameLen     = 2
	minPasswordLen = 6
)

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// --- Login ---

// LoginForm logs a user in and stores the session.
type LoginForm struct {
	api  AuthAPI
	gate Sessions

	mu       sync.Mutex
	email    string
	password string
	err      error
}

func NewLoginForm(client AuthAPI, gate Sessions) *LoginForm {
	return &LoginForm{api: client, gate: gate}
}

// ChangeField edits email or password and clears the last submit error.
func (f *LoginForm) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldEmail:
		f.email = value
	case FieldPassword:
		f.password = value
	default:
		return
	}
	f.err = nil
}

// Submit logs in. Success stores the session and routes to the dashboard;
// failure leaves the session untouched and the form editable.
func (f *LoginForm) Submit(ctx context.Context) (Route, error) {
	f.mu.Lock()
	email, password := strings.TrimSpace(f.email), f.password
	f.err = nil
	if email == "" || password == "" {
		f.err = invalid(FieldSubmit, "email and password are required")
		err := f.err
		f.mu.Unlock()
		return RouteNone, err
	}
	f.mu.Unlock()

	user, err := f.api.Login(ctx, api.Credentials{Email: email, Password: password})
	if err == nil {
		err = f.gate.Login(ctx, *user)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.err = err
		return RouteNone, err
	}
	f.password = ""
	return RouteDashboard, nil
}

func (f *LoginForm) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *LoginForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// --- Register ---

// RegisterForm creates an account. It never logs the user in.
type RegisterForm struct {
	api AuthAPI

	mu     sync.Mutex
	values map[string]string
	errs   map[string]string
}

func NewRegisterForm(client AuthAPI) *RegisterForm {
	return &RegisterForm{api: client, values: map[string]string{}, errs: map[string]string{}}
}

// ChangeField edits a field and clears its message.
func (f *RegisterForm) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldName, FieldEmail, FieldPassword, FieldConfirmPassword:
		f.values[name] = value
		delete(f.errs, name)
	}
}

// Validate checks every field and returns the messages, keyed by field.
func (f *RegisterForm) Validate() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = validateRegistration(f.values)
	return maps.Clone(f.errs)
}

func validateRegistration(v map[string]string) map[string]string {
	errs := map[string]string{}

	name := strings.TrimSpace(v[FieldName])
	switch {
	case name == "":
		errs[FieldName] = "name is required"
	case len([]rune(name)) < minNameLen:
		errs[FieldName] = "name must be at least 2 characters"
	}

	email := strings.TrimSpace(v[FieldEmail])
	switch {
	case email == "":
		errs[FieldEmail] = "email is required"
	case !emailPattern.MatchString(v[FieldEmail]):
		errs[FieldEmail] = "invalid email"
	}

	password := v[FieldPassword]
	switch {
	case password == "":
		errs[FieldPassword] = "password is required"
	case len(password) < minPasswordLen:
		errs[FieldPassword] = "password must be at least 6 characters"
	}

	switch {
	case v[FieldConfirmPassword] == "":
		errs[FieldConfirmPassword] = "confirm your password"
	case v[FieldConfirmPassword] != password:
		errs[FieldConfirmPassword] = "passwords do not match"
	}
	return errs
}

// Submit validates and registers. Success routes to login; the caller shows
// NoticeRegistered there.
func (f *RegisterForm) Submit(ctx context.Context) (Route, error) {
	f.mu.Lock()
	f.errs = validateRegistration(f.values)
	if len(f.errs) > 0 {
		err := &ValidationError{Fields: maps.Clone(f.errs)}
		f.mu.Unlock()
		return RouteNone, err
	}
	input := api.RegisterInput{
		Name:     strings.TrimSpace(f.values[FieldName]),
		Email:    strings.TrimSpace(f.values[FieldEmail]),
		Password: f.values[FieldPassword],
	}
	f.mu.Unlock()

	_, err := f.api.Register(ctx, input)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.errs = map[string]string{FieldSubmit: api.Message(err)}
		return RouteNone, err
	}
	return RouteLogin, nil
}

// Errors returns the current per-field messages.
func (f *RegisterForm) Errors() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return maps.Clone(f.errs)
}

func (f *RegisterForm) Value(name string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[name]
}

// --- Forgot password ---

// ForgotPasswordForm requests a reset link.
type ForgotPasswordForm struct {
	api AuthAPI

	mu    sync.Mutex
	email string
	sent  bool
	err   error
}

func NewForgotPasswordForm(client AuthAPI) *ForgotPasswordForm {
	return &ForgotPasswordForm{api: client}
}

// ChangeField edits the email and resets the outcome of the last submit.
func (f *ForgotPasswordForm) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name != FieldEmail {
		return
	}
	f.email = value
	f.err = nil
	f.sent = false
}

// Submit requests the link. On success Sent is true and the email is cleared.
func (f *ForgotPasswordForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	f.err = nil
	f.sent = false
	email := strings.TrimSpace(f.email)
	if email == "" {
		f.err = invalid(FieldSubmit, "enter your email")
		err := f.err
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	_, err := f.api.ForgotPassword(ctx, email)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.err = err
		return err
	}
	f.sent = true
	f.email = ""
	return nil
}

func (f *ForgotPasswordForm) Email() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.email
}

func (f *ForgotPasswordForm) Sent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent
}

func (f *ForgotPasswordForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// --- Reset password ---

// ResetPasswordForm sets a new password using a mailed token.
type ResetPasswordForm struct {
	api   AuthAPI
	token string

	mu       sync.Mutex
	password string
	confirm  string
	done     bool
	err      error
}

// NewResetPasswordForm binds the form to token. A blank token is reported
// as an error right away.
func NewResetPasswordForm(client AuthAPI, token string) *ResetPasswordForm {
	f := &ResetPasswordForm{api: client, token: strings.TrimSpace(token)}
	if f.token == "" {
		f.err = invalid(FieldSubmit, "invalid or missing token, request a new reset link")
	}
	return f
}

func (f *ResetPasswordForm) ChangeField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch name {
	case FieldPassword:
		f.password = value
	case FieldConfirmPassword:
		f.confirm = value
	default:
		return
	}
	f.err = nil
}

// Submit resets the password and routes to login on success.
func (f *ResetPasswordForm) Submit(ctx context.Context) (Route, error) {
	f.mu.Lock()
	f.err = nil
	f.done = false
	switch {
	case f.password == "":
		f.err = invalid(FieldPassword, "enter the new password")
	case len(f.password) < minPasswordLen:
		f.err = invalid(FieldPassword, "password must be at least 6 characters")
	case f.password != f.confirm:
		f.err = invalid(FieldConfirmPassword, "passwords do not match")
	case f.token == "":
		f.err = invalid(FieldSubmit, "invalid or missing token")
	}
	if f.err != nil {
		err := f.err
		f.mu.Unlock()
		return RouteNone, err
	}
	input := api.ResetPasswordInput{Token: f.token, NewPassword: f.password}
	f.mu.Unlock()

	_, err := f.api.ResetPassword(ctx, input)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.err = err
		return RouteNone, err
	}
	f.done = true
	f.password, f.confirm = "", ""
	return RouteLogin, nil
}

func (f *ResetPasswordForm) Token() string { return f.token }

func (f *ResetPasswordForm) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.done
}

func (f *ResetPasswordForm) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
