package api

import (
	"context"
	"fmt"
	"net/http"
)

// --- User Methods ---

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	data, err := c.get(ctx, "/users", failureText{fallback: "could not load users"})
	if err != nil {
		return nil, err
	}
	return decodeList[User](data)
}

// SearchUsers filters users server-side by name or email.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, error) {
	path := buildQuery("/users", QueryParams{"search": query})
	data, err := c.get(ctx, path, failureText{fallback: "could not load users"})
	if err != nil {
		return nil, err
	}
	return decodeList[User](data)
}

func (c *Client) GetUser(ctx context.Context, id ID) (*User, error) {
	data, err := c.get(ctx, fmt.Sprintf("/users/%s", id), failureText{fallback: "could not load user"})
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}

// GetProfile returns another user's profile and their collections in one call.
func (c *Client) GetProfile(ctx context.Context, id ID) (*ProfileBundle, error) {
	data, err := c.get(ctx, fmt.Sprintf("/users/%s/profile", id), failureText{fallback: "could not load profile"})
	if err != nil {
		return nil, err
	}
	bundle, err := decodeOne[ProfileBundle](data)
	if err != nil {
		return nil, err
	}
	if bundle.Collections == nil {
		bundle.Collections = []Collection{}
	}
	return bundle, nil
}

func (c *Client) UpdateUser(ctx context.Context, id ID, input UserUpdate) (*User, error) {
	data, err := c.put(ctx, fmt.Sprintf("/users/%s", id), input, failureText{
		fallback: "could not update profile",
		byStatus: map[int]string{http.StatusBadRequest: MsgEmailInUse},
	})
	if err != nil {
		return nil, err
	}
	return decodeOne[User](data)
}
