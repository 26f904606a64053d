package api

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// QueryParams is a simple string map for query string parameters.
type QueryParams map[string]string

// --- IDs ---

// ID is a backend-assigned numeric identifier. The client never invents one.
type ID int64

// ParseID parses a route or command-line id.
func ParseID(s string) (ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return ID(n), nil
}

func (id ID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// UnmarshalJSON accepts both 7 and "7".
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = 0
		return nil
	}
	raw := strings.Trim(string(data), `"`)
	if raw == "" {
		*id = 0
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("decode id %s: %w", data, err)
	}
	*id = ID(n)
	return nil
}

// --- Users ---

// User is the public user record.
type User struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Bio       string `json:"bio,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RegisterInput is the body of POST /auth/register.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordInput is the body of POST /auth/reset-password.
type ResetPasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UserUpdate is the body of PUT /users/{id}.
type UserUpdate struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
}

// Ack is the acknowledgement returned by the password endpoints.
type Ack struct {
	Message string `json:"message"`
}

// ProfileBundle is another user's profile together with their collections.
type ProfileBundle struct {
	Profile     User         `json:"perfil"`
	Collections []Collection `json:"colecoes"`
}

// --- Collections ---

// Collection is a named, user-owned grouping of items.
type Collection struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsPublic    bool   `json:"is_public"`
	OwnerID     ID     `json:"owner_id"`
	ItemCount   int    `json:"item_count,omitempty"`
}

func (c Collection) EntityID() ID { return c.ID }

// CollectionInput is the create/update body. OwnerID is only sent on create.
type CollectionInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	IsPublic    bool   `json:"is_public"`
	OwnerID     ID     `json:"owner_id,omitempty"`
}

// --- Items ---

// Item is a cataloged object inside a collection.
type Item struct {
	ID             ID      `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Quantity       int     `json:"quantity"`
	EstimatedValue float64 `json:"estimated_value"`
	ImageURL       string  `json:"image_url"`
	CollectionID   ID      `json:"collection_id"`
}

func (i Item) EntityID() ID { return i.ID }

// ItemInput is the create/update body. CollectionID is only sent on create.
type ItemInput struct {
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Quantity       int     `json:"quantity"`
	EstimatedValue float64 `json:"estimated_value"`
	ImageURL       string  `json:"image_url"`
	CollectionID   ID      `json:"collection_id,omitempty"`
}
