package controller

import (
	"context"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// CollectionsAPI is the slice of the API client collection screens use.
type CollectionsAPI interface {
	ListCollections(ctx context.Context, userID api.ID) ([]api.Collection, error)
	CreateCollection(ctx context.Context, input api.CollectionInput) (*api.Collection, error)
	UpdateCollection(ctx context.Context, id api.ID, input api.CollectionInput) (*api.Collection, error)
	DeleteCollection(ctx context.Context, id api.ID) error
}

// ItemsAPI is the slice of the API client item screens use.
type ItemsAPI interface {
	ListItems(ctx context.Context, collectionID api.ID) ([]api.Item, error)
	CreateItem(ctx context.Context, input api.ItemInput) (*api.Item, error)
	UpdateItem(ctx context.Context, id api.ID, input api.ItemInput) (*api.Item, error)
	DeleteItem(ctx context.Context, id api.ID) error
}

// UsersAPI covers user lookup and profile editing.
type UsersAPI interface {
	ListUsers(ctx context.Context) ([]api.User, error)
	SearchUsers(ctx context.Context, query string) ([]api.User, error)
	GetUser(ctx context.Context, id api.ID) (*api.User, error)
	GetProfile(ctx context.Context, id api.ID) (*api.ProfileBundle, error)
	UpdateUser(ctx context.Context, id api.ID, input api.UserUpdate) (*api.User, error)
}

// AuthAPI covers the unauthenticated account flows.
type AuthAPI interface {
	Register(ctx context.Context, input api.RegisterInput) (*api.User, error)
	Login(ctx context.Context, creds api.Credentials) (*api.User, error)
	ForgotPassword(ctx context.Context, email string) (*api.Ack, error)
	ResetPassword(ctx context.Context, input api.ResetPasswordInput) (*api.Ack, error)
}

// API is everything the screens need. *api.Client implements it.
type API interface {
	CollectionsAPI
	ItemsAPI
	UsersAPI
	AuthAPI
}

var _ API = (*api.Client)(nil)

// CollectionBackend lists collections by owner.
type CollectionBackend struct {
	API CollectionsAPI
}

func (b CollectionBackend) List(ctx context.Context, owner api.ID) ([]api.Collection, error) {
	return b.API.ListCollections(ctx, owner)
}

func (b CollectionBackend) Create(ctx context.Context, owner api.ID, d CollectionDraft) (*api.Collection, error) {
	in, err := d.ToInput(owner)
	if err != nil {
		return nil, err
	}
	return b.API.CreateCollection(ctx, in)
}

func (b CollectionBackend) Update(ctx context.Context, id api.ID, d CollectionDraft) (*api.Collection, error) {
	in, err := d.ToInput(0)
	if err != nil {
		return nil, err
	}
	return b.API.UpdateCollection(ctx, id, in)
}

func (b CollectionBackend) Delete(ctx context.Context, id api.ID) error {
	return b.API.DeleteCollection(ctx, id)
}

// ItemBackend lists items by collection.
type ItemBackend struct {
	API ItemsAPI
}

func (b ItemBackend) List(ctx context.Context, collection api.ID) ([]api.Item, error) {
	return b.API.ListItems(ctx, collection)
}

func (b ItemBackend) Create(ctx context.Context, collection api.ID, d ItemDraft) (*api.Item, error) {
	in, err := d.ToInput(collection)
	if err != nil {
		return nil, err
	}
	return b.API.CreateItem(ctx, in)
}

func (b ItemBackend) Update(ctx context.Context, id api.ID, d ItemDraft) (*api.Item, error) {
	in, err := d.ToInput(0)
	if err != nil {
		return nil, err
	}
	return b.API.UpdateItem(ctx, id, in)
}

func (b ItemBackend) Delete(ctx context.Context, id api.ID) error {
	return b.API.DeleteItem(ctx, id)
}
