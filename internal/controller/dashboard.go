package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/session"
)

// Dashboard manages the logged-in user's own collections.
type Dashboard struct {
	gate Sessions

	Collections *List[api.Collection, CollectionDraft]
	Form        *Form[api.Collection, CollectionDraft]

	mu   sync.Mutex
	user api.User
}

func NewDashboard(client CollectionsAPI, gate Sessions, confirm Confirmer, log *zap.Logger) *Dashboard {
	if log == nil {
		log = zap.NewNop()
	}
	list := NewList[api.Collection, CollectionDraft](CollectionBackend{API: client}, confirm, func(c api.Collection) string {
		return fmt.Sprintf("Delete collection %q? All of its items will be deleted too.", c.Name)
	}, log.Named("dashboard"))
	return &Dashboard{
		gate:        gate,
		Collections: list,
		Form:        NewForm(list, gate, BlankCollectionDraft, CollectionDraftFrom),
	}
}

// Mount checks the session and loads the user's collections. It returns
// RouteLogin without fetching anything when nobody is logged in.
func (d *Dashboard) Mount(ctx context.Context) (Route, error) {
	sess, err := requireSession(ctx, d.gate)
	if err != nil {
		return RouteLogin, err
	}
	d.mu.Lock()
	d.user = sess.User
	d.mu.Unlock()

	return RouteNone, d.Collections.Load(ctx, sess.User.ID)
}

// User is the session user seen at the last Mount.
func (d *Dashboard) User() api.User {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.user
}

// Delete removes a collection after confirmation.
func (d *Dashboard) Delete(ctx context.Context, id api.ID) (bool, error) {
	return d.Collections.Delete(ctx, id)
}

// requireSession maps any session failure other than a plain absence to
// ErrNoSession as well, after which the caller redirects to login.
func requireSession(ctx context.Context, gate Sessions) (session.Session, error) {
	sess, err := gate.Require(ctx)
	if err == nil {
		return sess, nil
	}
	if errors.Is(err, session.ErrNoSession) {
		return session.Session{}, err
	}
	return session.Session{}, fmt.Errorf("%w: %v", session.ErrNoSession, err)
}
