package session

import (
	"context"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// Gate is the single place protected flows ask "who is logged in".
type Gate struct {
	store Store
}

func NewGate(store Store) *Gate {
	return &Gate{store: store}
}

// Require returns the current session or ErrNoSession.
func (g *Gate) Require(ctx context.Context) (Session, error) {
	sess, err := g.store.Load(ctx)
	if err != nil {
		return Session{}, err
	}
	return *sess, nil
}

// Login replaces the stored session with user.
func (g *Gate) Login(ctx context.Context, user api.User) error {
	return g.store.Save(ctx, Session{User: user})
}

// Logout forgets the stored session.
func (g *Gate) Logout(ctx context.Context) error {
	return g.store.Clear(ctx)
}

// Merge overlays fresh onto the stored user and saves the result. The stored
// id is kept, as are name and email when fresh leaves them blank. Bio is
// always taken from fresh since it may be cleared.
func (g *Gate) Merge(ctx context.Context, fresh api.User) (Session, error) {
	sess, err := g.Require(ctx)
	if err != nil {
		return Session{}, err
	}
	u := &sess.User
	if fresh.Name != "" {
		u.Name = fresh.Name
	}
	if fresh.Email != "" {
		u.Email = fresh.Email
	}
	u.Bio = fresh.Bio
	if fresh.CreatedAt != "" {
		u.CreatedAt = fresh.CreatedAt
	}
	if err := g.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}
