package apitest

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shelf/cli/internal/api"
)

func TestBackendRoundTrip(t *testing.T) {
	b := New(t)
	client := b.Client()
	ctx := context.Background()

	u, err := client.Register(ctx, api.RegisterInput{Name: "Ana", Email: "ana@x.io", Password: "secret"})
	require.NoError(t, err)

	logged, err := client.Login(ctx, api.Credentials{Email: "ana@x.io", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, u.ID, logged.ID)

	col, err := client.CreateCollection(ctx, api.CollectionInput{Name: "Coins", OwnerID: u.ID})
	require.NoError(t, err)
	_, err = client.CreateItem(ctx, api.ItemInput{Name: "Penny", Quantity: 2, CollectionID: col.ID})
	require.NoError(t, err)

	cols, err := client.ListCollections(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, 1, cols[0].ItemCount)

	require.NoError(t, client.DeleteCollection(ctx, col.ID))
	assert.Empty(t, b.Items())
	assert.Equal(t, 1, b.CallCount(http.MethodDelete, "/api/collections/"))
}

func TestBackendFail(t *testing.T) {
	b := New(t)
	client := b.Client()
	b.Fail(http.MethodPost, "/api/auth/login", http.StatusUnauthorized, "")

	_, err := client.Login(context.Background(), api.Credentials{Email: "a@b.co", Password: "x"})
	require.Error(t, err)
	assert.True(t, api.IsKind(err, api.KindUnauthorized))
	assert.Equal(t, api.MsgInvalidCredentials, api.Message(err))

	b.Heal(http.MethodPost, "/api/auth/login")
	_, err = client.Login(context.Background(), api.Credentials{Email: "a@b.co", Password: "x"})
	assert.Equal(t, "Invalid credentials", api.Message(err))
}

func TestBackendPasswordReset(t *testing.T) {
	b := New(t)
	client := b.Client()
	ctx := context.Background()
	u := b.AddUser("Ana", "ana@x.io", "old-pass")

	_, err := client.ForgotPassword(ctx, "ana@x.io")
	require.NoError(t, err)

	_, err = client.ResetPassword(ctx, api.ResetPasswordInput{Token: "reset-" + u.ID.String(), NewPassword: "new-pass"})
	require.NoError(t, err)
	assert.Equal(t, "new-pass", b.Password("ana@x.io"))

	_, err = client.ResetPassword(ctx, api.ResetPasswordInput{Token: "bogus", NewPassword: "x"})
	assert.True(t, api.IsKind(err, api.KindValidation))
}
