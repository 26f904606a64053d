package api

import (
	"context"
	"fmt"
)

// --- Collection Methods ---

// ListCollections returns every collection owned by userID.
func (c *Client) ListCollections(ctx context.Context, userID ID) ([]Collection, error) {
	data, err := c.get(ctx, fmt.Sprintf("/collections/%s", userID), failureText{fallback: "could not load collections"})
	if err != nil {
		return nil, err
	}
	return decodeList[Collection](data)
}

func (c *Client) CreateCollection(ctx context.Context, input CollectionInput) (*Collection, error) {
	data, err := c.post(ctx, "/collections/", input, failureText{fallback: "could not save collection"})
	if err != nil {
		return nil, err
	}
	return decodeOne[Collection](data)
}

func (c *Client) UpdateCollection(ctx context.Context, id ID, input CollectionInput) (*Collection, error) {
	input.OwnerID = 0
	data, err := c.put(ctx, fmt.Sprintf("/collections/%s", id), input, failureText{fallback: "could not save collection"})
	if err != nil {
		return nil, err
	}
	return decodeOne[Collection](data)
}

// DeleteCollection removes a collection and, server-side, its items.
func (c *Client) DeleteCollection(ctx context.Context, id ID) error {
	return c.del(ctx, fmt.Sprintf("/collections/%s", id), failureText{fallback: "could not delete collection"})
}
