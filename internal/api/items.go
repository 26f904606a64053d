package api

import (
	"context"
	"fmt"
)

// --- Item Methods ---

func (c *Client) ListItems(ctx context.Context, collectionID ID) ([]Item, error) {
	data, err := c.get(ctx, fmt.Sprintf("/items/collection/%s", collectionID), failureText{fallback: "could not load items"})
	if err != nil {
		return nil, err
	}
	return decodeList[Item](data)
}

func (c *Client) CreateItem(ctx context.Context, input ItemInput) (*Item, error) {
	data, err := c.post(ctx, "/items/", input, failureText{fallback: "could not save item"})
	if err != nil {
		return nil, err
	}
	return decodeOne[Item](data)
}

func (c *Client) UpdateItem(ctx context.Context, id ID, input ItemInput) (*Item, error) {
	input.CollectionID = 0
	data, err := c.put(ctx, fmt.Sprintf("/items/%s", id), input, failureText{fallback: "could not save item"})
	if err != nil {
		return nil, err
	}
	return decodeOne[Item](data)
}

func (c *Client) DeleteItem(ctx context.Context, id ID) error {
	return c.del(ctx, fmt.Sprintf("/items/%s", id), failureText{fallback: "could not delete item"})
}
