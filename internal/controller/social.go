package controller

import (
	"context"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// --- User search ---

// SocialUsers lists and searches other users.
type SocialUsers struct {
	api UsersAPI
	log *zap.Logger

	mu    sync.Mutex
	query string
	users []api.User
	err   error
}

func NewSocialUsers(client UsersAPI, log *zap.Logger) *SocialUsers {
	if log == nil {
		log = zap.NewNop()
	}
	return &SocialUsers{api: client, log: log.Named("social"), users: []api.User{}}
}

// Search lists every user for a blank query, otherwise asks the backend to
// search and keeps only names containing the query, ignoring case. On
// failure the list is emptied.
func (s *SocialUsers) Search(ctx context.Context, query string) ([]api.User, error) {
	trimmed := strings.TrimSpace(query)

	var (
		users []api.User
		err   error
	)
	if trimmed == "" {
		users, err = s.api.ListUsers(ctx)
	} else {
		users, err = s.api.SearchUsers(ctx, trimmed)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		s.log.Warn("user search failed", zap.String("query", trimmed), zap.Error(err))
		users = []api.User{}
	} else {
		users = FilterUsers(users, trimmed)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = trimmed
	s.users = users
	s.err = err
	return slices.Clone(users), err
}

// FilterUsers keeps users whose name contains query, ignoring case. A blank
// query keeps everyone.
func FilterUsers(users []api.User, query string) []api.User {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return users
	}
	out := make([]api.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.Name), q) {
			out = append(out, u)
		}
	}
	return out
}

func (s *SocialUsers) Users() []api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

func (s *SocialUsers) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

func (s *SocialUsers) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// --- Another user's profile ---

// SocialProfile shows another user together with their collections.
type SocialProfile struct {
	gate Sessions
	api  UsersAPI
	log  *zap.Logger

	mu          sync.Mutex
	viewer      api.User
	profile     api.User
	collections []api.Collection
}

func NewSocialProfile(client UsersAPI, gate Sessions, log *zap.Logger) *SocialProfile {
	if log == nil {
		log = zap.NewNop()
	}
	return &SocialProfile{gate: gate, api: client, log: log.Named("social"), collections: []api.Collection{}}
}

// Mount loads the profile bundle of userID. Any failure sends the user back
// to the user list.
func (p *SocialProfile) Mount(ctx context.Context, userID api.ID) (Route, error) {
	sess, err := requireSession(ctx, p.gate)
	if err != nil {
		return RouteLogin, err
	}
	if userID <= 0 {
		return RouteSocial, nil
	}

	bundle, err := p.api.GetProfile(ctx, userID)
	if err != nil {
		p.log.Warn("load profile failed", zap.Stringer("user", userID), zap.Error(err))
		return RouteSocial, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.viewer = sess.User
	p.profile = bundle.Profile
	p.collections = bundle.Collections
	return RouteNone, nil
}

// Profile is the user being viewed.
func (p *SocialProfile) Profile() api.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.profile
}

// Viewer is the logged-in user.
func (p *SocialProfile) Viewer() api.User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewer
}

func (p *SocialProfile) Collections() []api.Collection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.collections)
}

// --- Another user's collection ---

// SocialCollectionAPI is what SocialCollection needs.
type SocialCollectionAPI interface {
	GetUser(ctx context.Context, id api.ID) (*api.User, error)
	ListCollections(ctx context.Context, userID api.ID) ([]api.Collection, error)
	ListItems(ctx context.Context, collectionID api.ID) ([]api.Item, error)
}

// SocialCollection is a read-only view of another user's collection.
type SocialCollection struct {
	gate Sessions
	api  SocialCollectionAPI
	log  *zap.Logger

	mu         sync.Mutex
	owner      api.User
	collection api.Collection
	items      []api.Item
}

func NewSocialCollection(client SocialCollectionAPI, gate Sessions, log *zap.Logger) *SocialCollection {
	if log == nil {
		log = zap.NewNop()
	}
	return &SocialCollection{gate: gate, api: client, log: log.Named("social"), items: []api.Item{}}
}

// Mount fetches the owner and their collections concurrently, then the
// items of collectionID. A missing owner goes back to the user list; a
// missing collection goes back to the owner's profile.
func (s *SocialCollection) Mount(ctx context.Context, ownerID, collectionID api.ID) (Route, error) {
	if _, err := requireSession(ctx, s.gate); err != nil {
		return RouteLogin, err
	}
	if ownerID <= 0 {
		return RouteSocial, nil
	}

	var (
		owner       *api.User
		collections []api.Collection
	)
	// Neither fetch cancels the other: the redirect depends on which failed.
	var g errgroup.Group
	g.Go(func() error {
		var err error
		owner, err = s.api.GetUser(ctx, ownerID)
		return err
	})
	g.Go(func() error {
		var err error
		collections, err = s.api.ListCollections(ctx, ownerID)
		return err
	})
	err := g.Wait()
	if owner == nil {
		if err != nil {
			s.log.Warn("load owner failed", zap.Stringer("user", ownerID), zap.Error(err))
		}
		return RouteSocial, err
	}
	if err != nil {
		s.log.Warn("load collections failed", zap.Stringer("user", ownerID), zap.Error(err))
		return SocialUserRoute(ownerID), err
	}

	idx := slices.IndexFunc(collections, func(c api.Collection) bool { return c.ID == collectionID })
	if idx < 0 {
		return SocialUserRoute(ownerID), nil
	}

	items, err := s.api.ListItems(ctx, collectionID)
	if err != nil {
		s.log.Warn("load items failed", zap.Stringer("collection", collectionID), zap.Error(err))
		return SocialUserRoute(ownerID), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.owner = *owner
	s.collection = collections[idx]
	s.items = items
	return RouteNone, nil
}

func (s *SocialCollection) Owner() api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

func (s *SocialCollection) Collection() api.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection
}

func (s *SocialCollection) Items() []api.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}
