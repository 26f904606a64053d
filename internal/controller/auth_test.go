package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/api/apitest"
	"github.com/gravitrone/shelf/cli/internal/session"
)

func TestLoginSuccessStoresSession(t *testing.T) {
	b := apitest.New(t)
	u := b.AddUser("Ana", "ana@x.io", "secret1")
	gate := loggedOut()
	f := NewLoginForm(b.Client(), gate)

	f.ChangeField(FieldEmail, " ana@x.io ")
	f.ChangeField(FieldPassword, "secret1")
	route, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteDashboard, route)

	sess, err := gate.Require(context.Background())
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
}

func TestLoginUnauthorizedLeavesSessionUnwritten(t *testing.T) {
	b := apitest.New(t)
	b.AddUser("Ana", "ana@x.io", "secret1")
	b.Fail(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, "")
	gate := loggedOut()
	f := NewLoginForm(b.Client(), gate)

	f.ChangeField(FieldEmail, "ana@x.io")
	f.ChangeField(FieldPassword, "wrong")
	route, err := f.Submit(context.Background())

	assert.Equal(t, RouteNone, route)
	assert.True(t, api.IsKind(err, api.KindUnauthorized))
	assert.Equal(t, api.MsgInvalidCredentials, api.Message(f.Err()))
	_, err = gate.Require(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)

	// typing again clears the message
	f.ChangeField(FieldPassword, "secret1")
	assert.NoError(t, f.Err())
}

func TestLoginRequiresBothFields(t *testing.T) {
	b := apitest.New(t)
	f := NewLoginForm(b.Client(), loggedOut())

	f.ChangeField(FieldEmail, "ana@x.io")
	_, err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "email and password are required", verr.Field(FieldSubmit))
	assert.Empty(t, b.Calls())
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		field  string
		want   string
	}{
		{"missing name", map[string]string{FieldEmail: "a@b.co", FieldPassword: "secret", FieldConfirmPassword: "secret"}, FieldName, "name is required"},
		{"short name", map[string]string{FieldName: "A", FieldEmail: "a@b.co", FieldPassword: "secret", FieldConfirmPassword: "secret"}, FieldName, "name must be at least 2 characters"},
		{"bad email", map[string]string{FieldName: "Ana", FieldEmail: "ana.at.x", FieldPassword: "secret", FieldConfirmPassword: "secret"}, FieldEmail, "invalid email"},
		{"short password", map[string]string{FieldName: "Ana", FieldEmail: "a@b.co", FieldPassword: "12345", FieldConfirmPassword: "12345"}, FieldPassword, "password must be at least 6 characters"},
		{"missing confirmation", map[string]string{FieldName: "Ana", FieldEmail: "a@b.co", FieldPassword: "secret"}, FieldConfirmPassword, "confirm your password"},
		{"mismatch", map[string]string{FieldName: "Ana", FieldEmail: "a@b.co", FieldPassword: "secret", FieldConfirmPassword: "secreT"}, FieldConfirmPassword, "passwords do not match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := apitest.New(t)
			f := NewRegisterForm(b.Client())
			for k, v := range tt.values {
				f.ChangeField(k, v)
			}

			route, err := f.Submit(context.Background())
			assert.Equal(t, RouteNone, route)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.want, verr.Field(tt.field))
			assert.Equal(t, tt.want, f.Errors()[tt.field])
			assert.Empty(t, b.Calls())

			f.ChangeField(tt.field, "edited")
			assert.Empty(t, f.Errors()[tt.field])
		})
	}
}

func TestRegisterSuccessRoutesToLogin(t *testing.T) {
	b := apitest.New(t)
	f := NewRegisterForm(b.Client())
	f.ChangeField(FieldName, "Ana")
	f.ChangeField(FieldEmail, "ana@x.io")
	f.ChangeField(FieldPassword, "secret1")
	f.ChangeField(FieldConfirmPassword, "secret1")

	route, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, route)
	assert.Empty(t, f.Errors())
	assert.Equal(t, "secret1", b.Password("ana@x.io"))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	b := apitest.New(t)
	b.AddUser("Ana", "ana@x.io", "secret1")
	f := NewRegisterForm(b.Client())
	f.ChangeField(FieldName, "Ana Two")
	f.ChangeField(FieldEmail, "ana@x.io")
	f.ChangeField(FieldPassword, "secret1")
	f.ChangeField(FieldConfirmPassword, "secret1")

	_, err := f.Submit(context.Background())
	assert.True(t, api.IsKind(err, api.KindValidation))
	assert.Equal(t, "Email already registered", f.Errors()[FieldSubmit])
}

func TestForgotPassword(t *testing.T) {
	b := apitest.New(t)
	b.AddUser("Ana", "ana@x.io", "secret1")
	f := NewForgotPasswordForm(b.Client())

	err := f.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Empty(t, b.Calls())

	f.ChangeField(FieldEmail, "ana@x.io")
	require.NoError(t, f.Submit(context.Background()))
	assert.True(t, f.Sent())
	assert.Empty(t, f.Email())

	f.ChangeField(FieldEmail, "nobody@x.io")
	assert.False(t, f.Sent())
	b.Fail(http.MethodPost, "/api/auth/forgot-password", http.StatusNotFound, "")
	err = f.Submit(context.Background())
	assert.Equal(t, api.MsgEmailNotFound, api.Message(err))
	assert.False(t, f.Sent())
	assert.Equal(t, "nobody@x.io", f.Email())
}

func TestResetPassword(t *testing.T) {
	b := apitest.New(t)
	b.AddUser("Ana", "ana@x.io", "old-pass")
	b.SetResetToken("ana@x.io", "tok")

	missing := NewResetPasswordForm(b.Client(), " ")
	require.Error(t, missing.Err())
	missing.ChangeField(FieldPassword, "new-pass")
	missing.ChangeField(FieldConfirmPassword, "new-pass")
	_, err := missing.Submit(context.Background())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "invalid or missing token", verr.Field(FieldSubmit))

	f := NewResetPasswordForm(b.Client(), "tok")
	f.ChangeField(FieldPassword, "short")
	f.ChangeField(FieldConfirmPassword, "short")
	_, err = f.Submit(context.Background())
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Field(FieldPassword))

	f.ChangeField(FieldPassword, "new-pass")
	f.ChangeField(FieldConfirmPassword, "new-pasS")
	_, err = f.Submit(context.Background())
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "passwords do not match", verr.Field(FieldConfirmPassword))
	assert.Empty(t, b.Calls())

	f.ChangeField(FieldConfirmPassword, "new-pass")
	route, err := f.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteLogin, route)
	assert.True(t, f.Done())
	assert.Equal(t, "new-pass", b.Password("ana@x.io"))
}
