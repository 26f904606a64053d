// Package apitest provides an in-memory stand-in for the shelf REST API,
// routed the same way as the real server, for use in tests.
package apitest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// Call is one request the backend received.
type Call struct {
	Method string
	Path   string
	Body   map[string]any
}

type failure struct {
	status int
	detail string
}

type account struct {
	user       api.User
	password   string
	resetToken string
}

// Backend is a fake shelf API server.
type Backend struct {
	mu          sync.Mutex
	srv         *httptest.Server
	accounts    []*account
	collections []api.Collection
	items       []api.Item
	nextID      api.ID
	calls       []Call
	failures    map[string]failure
}

// New starts a backend that is shut down when the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{nextID: 100, failures: map[string]failure{}}
	b.srv = httptest.NewServer(b.router())
	t.Cleanup(b.srv.Close)
	return b
}

// URL is the server root, suitable for api.NewClient.
func (b *Backend) URL() string {
	return b.srv.URL
}

// Client returns an API client pointed at the backend.
func (b *Backend) Client() *api.Client {
	return api.NewClient(b.srv.URL)
}

// AddUser registers an account directly.
func (b *Backend) AddUser(name, email, password string) api.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	u := api.User{ID: b.id(), Name: name, Email: email}
	b.accounts = append(b.accounts, &account{user: u, password: password})
	return u
}

// AddCollection stores c, assigning an id when it has none.
func (b *Backend) AddCollection(c api.Collection) api.Collection {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == 0 {
		c.ID = b.id()
	}
	b.collections = append(b.collections, c)
	return c
}

// AddItem stores it, assigning an id when it has none.
func (b *Backend) AddItem(it api.Item) api.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	if it.ID == 0 {
		it.ID = b.id()
	}
	b.items = append(b.items, it)
	return it
}

// SetResetToken arms a password reset token for email.
func (b *Backend) SetResetToken(email, token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc := b.accountByEmail(email); acc != nil {
		acc.resetToken = token
	}
}

// Password returns the current password of email.
func (b *Backend) Password(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if acc := b.accountByEmail(email); acc != nil {
		return acc.password
	}
	return ""
}

// Fail makes every later request matching method and exact path answer with
// status and a detail body. An empty detail sends an empty JSON object.
func (b *Backend) Fail(method, path string, status int, detail string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[method+" "+path] = failure{status: status, detail: detail}
}

// Heal removes a failure installed with Fail.
func (b *Backend) Heal(method, path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, method+" "+path)
}

// Calls returns every request received so far.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Call, len(b.calls))
	copy(out, b.calls)
	return out
}

// CallCount counts requests with the given method whose path starts with prefix.
func (b *Backend) CallCount(method, prefix string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Method == method && strings.HasPrefix(c.Path, prefix) {
			n++
		}
	}
	return n
}

// Collections returns the stored collections.
func (b *Backend) Collections() []api.Collection {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.Collection, len(b.collections))
	copy(out, b.collections)
	return out
}

// Items returns the stored items.
func (b *Backend) Items() []api.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]api.Item, len(b.items))
	copy(out, b.items)
	return out
}

func (b *Backend) id() api.ID {
	b.nextID++
	return b.nextID
}

func (b *Backend) accountByEmail(email string) *account {
	for _, acc := range b.accounts {
		if strings.EqualFold(acc.user.Email, email) {
			return acc
		}
	}
	return nil
}

func (b *Backend) accountByID(id api.ID) *account {
	for _, acc := range b.accounts {
		if acc.user.ID == id {
			return acc
		}
	}
	return nil
}

func (b *Backend) withItemCount(c api.Collection) api.Collection {
	n := 0
	for _, it := range b.items {
		if it.CollectionID == c.ID {
			n++
		}
	}
	c.ItemCount = n
	return c
}

// --- HTTP plumbing ---

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if r.Body != nil && r.ContentLength != 0 {
			_ = json.NewDecoder(r.Body).Decode(&body)
		}
		b.mu.Lock()
		b.calls = append(b.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		f, failing := b.failures[r.Method+" "+r.URL.Path]
		b.mu.Unlock()

		if failing {
			if f.detail == "" {
				writeJSON(w, f.status, map[string]any{})
			} else {
				writeDetail(w, f.status, f.detail)
			}
			return
		}
		next.ServeHTTP(w, withBody(r, body))
	})
}

type bodyKey struct{}

func withBody(r *http.Request, body map[string]any) *http.Request {
	if body == nil {
		body = map[string]any{}
	}
	return r.WithContext(context.WithValue(r.Context(), bodyKey{}, body))
}

func bodyOf(r *http.Request) map[string]any {
	body, _ := r.Context().Value(bodyKey{}).(map[string]any)
	if body == nil {
		return map[string]any{}
	}
	return body
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

func pathID(r *http.Request, name string) (api.ID, bool) {
	id, err := api.ParseID(mux.Vars(r)[name])
	return id, err == nil
}

func str(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return s
}

func num(body map[string]any, key string) float64 {
	f, _ := body[key].(float64)
	return f
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)

	r.HandleFunc("/api/auth/register", b.register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/forgot-password", b.forgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password", b.resetPassword).Methods(http.MethodPost)

	r.HandleFunc("/api/collections/", b.createCollection).Methods(http.MethodPost)
	r.HandleFunc("/api/collections/{id}", b.listCollections).Methods(http.MethodGet)
	r.HandleFunc("/api/collections/{id}", b.updateCollection).Methods(http.MethodPut)
	r.HandleFunc("/api/collections/{id}", b.deleteCollection).Methods(http.MethodDelete)

	r.HandleFunc("/api/items/", b.createItem).Methods(http.MethodPost)
	r.HandleFunc("/api/items/collection/{id}", b.listItems).Methods(http.MethodGet)
	r.HandleFunc("/api/items/{id}", b.updateItem).Methods(http.MethodPut)
	r.HandleFunc("/api/items/{id}", b.deleteItem).Methods(http.MethodDelete)

	r.HandleFunc("/api/users", b.listUsers).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}/profile", b.profile).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", b.getUser).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", b.updateUser).Methods(http.MethodPut)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	return r
}

func (b *Backend) String() string {
	return fmt.Sprintf("apitest.Backend(%s)", b.srv.URL)
}
