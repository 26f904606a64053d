package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(srv.URL)
	return srv, client
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func TestLogin(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		var body Credentials
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana@example.com", body.Email)
		assert.Equal(t, "secret1", body.Password)
		writeJSON(w, http.StatusOK, map[string]any{"id": 3, "name": "Ana", "email": "ana@example.com"})
	})

	user, err := client.Login(context.Background(), Credentials{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, ID(3), user.ID)
	assert.Equal(t, "Ana", user.Name)
}

func TestLoginUnauthorizedWithoutDetail(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	user, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "nope"})
	assert.Nil(t, user)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnauthorized))
	assert.Equal(t, MsgInvalidCredentials, err.Error())
}

func TestLoginUnauthorizedPrefersServerDetail(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Email ou senha incorretos"})
	})

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Email ou senha incorretos", err.Error())

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestLoginServerErrorUsesGenericMessage(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	})

	_, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "x"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindServer))
	assert.Equal(t, "could not log in", err.Error())
}

func TestRegister(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)
		var body RegisterInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ana", body.Name)
		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "name": body.Name, "email": body.Email})
	})

	user, err := client.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, ID(9), user.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "Email já cadastrado"})
	})

	_, err := client.Register(context.Background(), RegisterInput{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, "Email já cadastrado", err.Error())
}

func TestForgotAndResetPassword(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/forgot-password":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "ana@example.com", body["email"])
			writeJSON(w, http.StatusOK, map[string]any{"message": "check your email"})
		case "/api/auth/reset-password":
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "tok-1", body["token"])
			assert.Equal(t, "newpass", body["new_password"])
			writeJSON(w, http.StatusOK, map[string]any{"message": "password changed"})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	ack, err := client.ForgotPassword(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "check your email", ack.Message)

	ack, err = client.ResetPassword(context.Background(), ResetPasswordInput{Token: "tok-1", NewPassword: "newpass"})
	require.NoError(t, err)
	assert.Equal(t, "password changed", ack.Message)
}

func TestListCollections(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/collections/4", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 1, "name": "Stamps", "is_public": true, "owner_id": 4},
			{"id": "2", "name": "Coins", "description": nil, "owner_id": 4},
		})
	})

	cols, err := client.ListCollections(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, ID(2), cols[1].ID)
	assert.Equal(t, "", cols[1].Description)
	assert.True(t, cols[0].IsPublic)
}

func TestListCollectionsNullBodyIsEmpty(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})

	cols, err := client.ListCollections(context.Background(), 4)
	require.NoError(t, err)
	assert.NotNil(t, cols)
	assert.Empty(t, cols)
}

func TestCreateCollectionSendsSnakeCase(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/collections/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Stamps", body["name"])
		assert.Equal(t, "http://img", body["image_url"])
		assert.Equal(t, true, body["is_public"])
		assert.Equal(t, float64(4), body["owner_id"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": 7, "name": "Stamps", "owner_id": 4})
	})

	col, err := client.CreateCollection(context.Background(), CollectionInput{
		Name: "Stamps", ImageURL: "http://img", IsPublic: true, OwnerID: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, ID(7), col.ID)
}

func TestUpdateCollectionOmitsOwner(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/collections/7", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasOwner := body["owner_id"]
		assert.False(t, hasOwner)
		writeJSON(w, http.StatusOK, map[string]any{"id": 7, "name": body["name"]})
	})

	col, err := client.UpdateCollection(context.Background(), 7, CollectionInput{Name: "Old Stamps", OwnerID: 4})
	require.NoError(t, err)
	assert.Equal(t, "Old Stamps", col.Name)
}

func TestDeleteCollectionNotFound(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "Coleção não encontrada"})
	})

	err := client.DeleteCollection(context.Background(), 99)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, "Coleção não encontrada", err.Error())
}

func TestDeleteItemNoContent(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items/5", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteItem(context.Background(), 5))
}

func TestCreateAndUpdateItem(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		switch r.Method {
		case http.MethodPost:
			assert.Equal(t, "/api/items/", r.URL.Path)
			assert.Equal(t, float64(2), body["collection_id"])
			assert.Equal(t, 12.5, body["estimated_value"])
			writeJSON(w, http.StatusCreated, map[string]any{"id": 11, "name": body["name"], "quantity": body["quantity"], "collection_id": 2})
		case http.MethodPut:
			assert.Equal(t, "/api/items/11", r.URL.Path)
			_, hasCollection := body["collection_id"]
			assert.False(t, hasCollection)
			writeJSON(w, http.StatusOK, map[string]any{"id": 11, "name": body["name"], "quantity": body["quantity"], "collection_id": 2})
		}
	})

	item, err := client.CreateItem(context.Background(), ItemInput{Name: "Penny Black", Quantity: 1, EstimatedValue: 12.5, CollectionID: 2})
	require.NoError(t, err)
	assert.Equal(t, ID(11), item.ID)
	assert.Equal(t, ID(2), item.CollectionID)

	item, err = client.UpdateItem(context.Background(), 11, ItemInput{Name: "Penny Red", Quantity: 3, CollectionID: 2})
	require.NoError(t, err)
	assert.Equal(t, "Penny Red", item.Name)
	assert.Equal(t, 3, item.Quantity)
}

func TestListItems(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/items/collection/2", r.URL.Path)
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "a", "collection_id": 2}})
	})

	items, err := client.ListItems(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestSearchUsersEncodesQuery(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users", r.URL.Path)
		assert.Equal(t, "ana maria", r.URL.Query().Get("search"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": 1, "name": "Ana Maria"}})
	})

	users, err := client.SearchUsers(context.Background(), "ana maria")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Ana Maria", users[0].Name)
}

func TestGetProfileBundle(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/5/profile", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]any{
			"perfil":   map[string]any{"id": 5, "name": "Bia"},
			"colecoes": nil,
		})
	})

	bundle, err := client.GetProfile(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Bia", bundle.Profile.Name)
	assert.NotNil(t, bundle.Collections)
}

func TestUpdateUserEmailInUse(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{}`))
	})

	_, err := client.UpdateUser(context.Background(), 1, UserUpdate{Name: "Ana", Email: "taken@example.com"})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, MsgEmailInUse, err.Error())
}

func TestUnreachableServerIsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, time.Second)
	_, err := client.ListUsers(context.Background())
	require.Error(t, err)
	assert.Equal(t, MsgConnection, err.Error())
	assert.True(t, IsKind(err, KindTransport))
}

func TestExtractAPIErrorBodyValidationList(t *testing.T) {
	body := []byte(`{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"}]}`)
	msg, ok := extractAPIErrorBody(body)
	assert.True(t, ok)
	assert.Equal(t, "value is not a valid email address", msg)
}

func TestExtractAPIErrorBodyEmpty(t *testing.T) {
	_, ok := extractAPIErrorBody(nil)
	assert.False(t, ok)
	_, ok = extractAPIErrorBody([]byte("not json"))
	assert.False(t, ok)
}

func TestBuildQuery(t *testing.T) {
	result := buildQuery("/users", QueryParams{"search": "ana", "empty": ""})
	assert.Equal(t, "/users?search=ana", result)
}

func TestBuildQueryEmpty(t *testing.T) {
	assert.Equal(t, "/users", buildQuery("/users", nil))
	assert.Equal(t, "/users", buildQuery("/users", QueryParams{"search": ""}))
}

func TestNewClientCustomTimeout(t *testing.T) {
	client := NewClient("http://example.com", 5*time.Second)
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestMessageForForeignError(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, MsgConnection, Message(assert.AnError))
	assert.Equal(t, MsgConnection, Message(errors.New("no session")))
	assert.Equal(t, "nope", Message(fmt.Errorf("save: %w", &Error{Kind: KindServer, Message: "nope"})))
	assert.Equal(t, "nope", Message(&Error{Kind: KindServer, Message: "nope"}))
}

func TestIDUnmarshalNumberAndString(t *testing.T) {
	var got struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 7, "b": "7", "c": null}`), &got))
	assert.Equal(t, ID(7), got.A)
	assert.Equal(t, got.A, got.B)
	assert.Equal(t, ID(0), got.C)

	var bad ID
	assert.Error(t, json.Unmarshal([]byte(`"seven"`), &bad))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, ID(12), id)
	assert.Equal(t, "12", id.String())

	for _, in := range []string{"", "abc", "0", "-3"} {
		_, err := ParseID(in)
		assert.Error(t, err, in)
	}
}
