package controller

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/shelf/cli/internal/api"
	"github.com/gravitrone/shelf/cli/internal/api/apitest"
	"github.com/gravitrone/shelf/cli/internal/session"
)

type world struct {
	backend *apitest.Backend
	client  *api.Client
	owner   api.User
	other   api.User
	coins   api.Collection
	stamps  api.Collection
}

func newWorld(t *testing.T) *world {
	t.Helper()
	b := apitest.New(t)
	w := &world{backend: b, client: b.Client()}
	w.owner = b.AddUser("Ana", "ana@x.io", "secret1")
	w.other = b.AddUser("Bruno", "bruno@x.io", "secret2")
	w.coins = b.AddCollection(api.Collection{Name: "Coins", OwnerID: w.owner.ID, IsPublic: true})
	w.stamps = b.AddCollection(api.Collection{Name: "Stamps", OwnerID: w.other.ID, IsPublic: true})
	b.AddItem(api.Item{Name: "Penny", Quantity: 2, EstimatedValue: 1.5, CollectionID: w.coins.ID})
	b.AddItem(api.Item{Name: "Inverted Jenny", Quantity: 1, EstimatedValue: 1000, CollectionID: w.stamps.ID})
	return w
}

func TestDashboardWithoutSessionRedirectsBeforeFetching(t *testing.T) {
	w := newWorld(t)
	d := NewDashboard(w.client, loggedOut(), nil, nil)

	route, err := d.Mount(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Equal(t, RouteLogin, route)
	assert.Empty(t, w.backend.Calls())
}

func TestDashboardLoadsCreatesAndDeletes(t *testing.T) {
	w := newWorld(t)
	confirm := &recordingConfirmer{answer: true}
	d := NewDashboard(w.client, loggedIn(t, w.owner), confirm, nil)

	route, err := d.Mount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteNone, route)
	assert.Equal(t, w.owner, d.User())
	require.Equal(t, 1, d.Collections.Len())

	d.Form.OpenCreate()
	d.Form.ChangeField(FieldName, "Vinyl")
	d.Form.ChangeField(FieldIsPublic, "true")
	closed, err := d.Form.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, closed)
	require.Equal(t, 2, d.Collections.Len())

	created := d.Collections.Items()[1]
	assert.Equal(t, w.owner.ID, created.OwnerID)
	assert.True(t, created.IsPublic)

	deleted, err := d.Delete(context.Background(), w.coins.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, []string{`Delete collection "Coins"? All of its items will be deleted too.`}, confirm.prompts)
	assert.Equal(t, 1, d.Collections.Len())
}

func TestCollectionDetailsUnknownIDRedirectsToDashboard(t *testing.T) {
	w := newWorld(t)
	c := NewCollectionDetails(w.client, loggedIn(t, w.owner), nil, nil)

	// another user's collection is not one of ours
	route, err := c.Mount(context.Background(), w.stamps.ID)
	require.NoError(t, err)
	assert.Equal(t, RouteDashboard, route)
	assert.Equal(t, 0, w.backend.CallCount(http.MethodGet, "/api/items/"))
}

func TestCollectionDetailsLoadsItemsFromRouteID(t *testing.T) {
	w := newWorld(t)
	c := NewCollectionDetails(w.client, loggedIn(t, w.owner), &recordingConfirmer{answer: true}, nil)

	dest, err := CollectionRoute(w.coins.ID).Resolve()
	require.NoError(t, err)
	route, err := c.Mount(context.Background(), dest.CollectionID)
	require.NoError(t, err)
	assert.Equal(t, RouteNone, route)
	assert.Equal(t, "Coins", c.Collection().Name)
	require.Equal(t, 1, c.Items.Len())
	assert.InDelta(t, 3.0, c.TotalValue(), 0.001)

	c.Form.OpenCreate()
	c.Form.ChangeField(FieldName, "Dime")
	c.Form.ChangeField(FieldQuantity, "4")
	c.Form.ChangeField(FieldEstimatedValue, "0.25")
	_, err = c.Form.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, c.Items.Len())
	assert.Equal(t, w.coins.ID, c.Items.Items()[1].CollectionID)

	penny := c.Items.Items()[0]
	c.Form.OpenEdit(penny)
	c.Form.ChangeField(FieldQuantity, "5")
	_, err = c.Form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items.Items()[0].Quantity)
	assert.Equal(t, "Penny", c.Items.Items()[0].Name)

	_, err = c.Delete(context.Background(), penny.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dime"}, itemNames(c.Items.Items()))
}

func TestCollectionDetailsNoSession(t *testing.T) {
	w := newWorld(t)
	c := NewCollectionDetails(w.client, loggedOut(), nil, nil)

	route, _ := c.Mount(context.Background(), w.coins.ID)
	assert.Equal(t, RouteLogin, route)
	assert.Empty(t, w.backend.Calls())
}

func itemNames(items []api.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSocialUsersSearchFiltersByName(t *testing.T) {
	w := newWorld(t)
	w.backend.AddUser("Brunella", "b2@x.io", "pw1234")
	s := NewSocialUsers(w.client, nil)

	all, err := s.Search(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, 1, w.backend.CallCount(http.MethodGet, "/api/users"))

	found, err := s.Search(context.Background(), "BRUN")
	require.NoError(t, err)
	assert.Len(t, found, 2)
	assert.Equal(t, "BRUN", s.Query())
}

func TestSocialUsersFailureEmptiesList(t *testing.T) {
	w := newWorld(t)
	s := NewSocialUsers(w.client, nil)
	_, err := s.Search(context.Background(), "")
	require.NoError(t, err)

	w.backend.Fail(http.MethodGet, "/api/users", http.StatusInternalServerError, "")
	_, err = s.Search(context.Background(), "")
	assert.Error(t, err)
	assert.Empty(t, s.Users())
	assert.Error(t, s.Err())
}

func TestFilterUsers(t *testing.T) {
	users := []api.User{{Name: "Ana"}, {Name: "Mariana"}, {Name: "Bo"}}
	assert.Len(t, FilterUsers(users, "ANA"), 2)
	assert.Len(t, FilterUsers(users, ""), 3)
	assert.Empty(t, FilterUsers(users, "zed"))
}

func TestSocialProfile(t *testing.T) {
	w := newWorld(t)
	p := NewSocialProfile(w.client, loggedIn(t, w.owner), nil)

	route, err := p.Mount(context.Background(), w.other.ID)
	require.NoError(t, err)
	assert.Equal(t, RouteNone, route)
	assert.Equal(t, "Bruno", p.Profile().Name)
	assert.Equal(t, w.owner.ID, p.Viewer().ID)
	require.Len(t, p.Collections(), 1)
	assert.Equal(t, 1, p.Collections()[0].ItemCount)

	route, err = p.Mount(context.Background(), 999)
	assert.Error(t, err)
	assert.Equal(t, RouteSocial, route)

	route, _ = p.Mount(context.Background(), 0)
	assert.Equal(t, RouteSocial, route)
}

func TestSocialProfileNoSession(t *testing.T) {
	w := newWorld(t)
	p := NewSocialProfile(w.client, loggedOut(), nil)

	route, _ := p.Mount(context.Background(), w.other.ID)
	assert.Equal(t, RouteLogin, route)
	assert.Empty(t, w.backend.Calls())
}

func TestSocialCollection(t *testing.T) {
	w := newWorld(t)
	s := NewSocialCollection(w.client, loggedIn(t, w.owner), nil)

	route, err := s.Mount(context.Background(), w.other.ID, w.stamps.ID)
	require.NoError(t, err)
	assert.Equal(t, RouteNone, route)
	assert.Equal(t, "Bruno", s.Owner().Name)
	assert.Equal(t, "Stamps", s.Collection().Name)
	assert.Equal(t, []string{"Inverted Jenny"}, itemNames(s.Items()))
}

func TestSocialCollectionRedirects(t *testing.T) {
	w := newWorld(t)
	s := NewSocialCollection(w.client, loggedIn(t, w.owner), nil)

	route, err := s.Mount(context.Background(), 999, w.stamps.ID)
	assert.Error(t, err)
	assert.Equal(t, RouteSocial, route)

	// collection exists but belongs to someone else
	route, err = s.Mount(context.Background(), w.other.ID, w.coins.ID)
	require.NoError(t, err)
	assert.Equal(t, SocialUserRoute(w.other.ID), route)

	w.backend.Fail(http.MethodGet, "/api/collections/"+w.other.ID.String(), http.StatusInternalServerError, "")
	route, err = s.Mount(context.Background(), w.other.ID, w.stamps.ID)
	assert.Error(t, err)
	assert.Equal(t, SocialUserRoute(w.other.ID), route)
}

func TestProfileSaveMergesSession(t *testing.T) {
	w := newWorld(t)
	gate := loggedIn(t, w.owner)
	p := NewProfile(w.client, gate, nil)

	route, err := p.Mount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, RouteNone, route)
	assert.Equal(t, ProfileDraft{Name: "Ana", Email: "ana@x.io"}, p.Draft())

	stats := p.Stats()
	assert.Equal(t, 1, stats.Collections)
	assert.Equal(t, 1, stats.Items)
	require.NotNil(t, stats.MostRecent)
	assert.Equal(t, "Coins", stats.MostRecent.Name)

	p.ChangeField(FieldName, "Ana Maria")
	p.ChangeField(FieldBio, "collects coins")
	ok, err := p.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, NoticeProfileUpdated, p.Notice())

	sess, err := gate.Require(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", sess.User.Name)
	assert.Equal(t, "collects coins", sess.User.Bio)
	assert.Equal(t, w.owner.ID, sess.User.ID)
}

func TestProfileEmailInUse(t *testing.T) {
	w := newWorld(t)
	gate := loggedIn(t, w.owner)
	p := NewProfile(w.client, gate, nil)
	_, err := p.Mount(context.Background())
	require.NoError(t, err)

	w.backend.Fail(http.MethodPut, "/api/users/"+w.owner.ID.String(), http.StatusBadRequest, "")
	p.ChangeField(FieldEmail, "bruno@x.io")
	ok, err := p.Submit(context.Background())
	assert.False(t, ok)
	assert.Equal(t, api.MsgEmailInUse, api.Message(err))
	assert.Equal(t, api.MsgEmailInUse, api.Message(p.Err()))
	assert.Empty(t, p.Notice())

	sess, _ := gate.Require(context.Background())
	assert.Equal(t, "ana@x.io", sess.User.Email)
}

func TestProfileBioIsCapped(t *testing.T) {
	w := newWorld(t)
	p := NewProfile(w.client, loggedIn(t, w.owner), nil)
	_, err := p.Mount(context.Background())
	require.NoError(t, err)

	long := make([]rune, BioMaxLen+10)
	for i := range long {
		long[i] = 'é'
	}
	p.ChangeField(FieldBio, string(long))
	assert.Len(t, []rune(p.Draft().Bio), BioMaxLen)
}

func TestProfileNoSession(t *testing.T) {
	w := newWorld(t)
	p := NewProfile(w.client, loggedOut(), nil)

	route, _ := p.Mount(context.Background())
	assert.Equal(t, RouteLogin, route)
	_, err := p.Submit(context.Background())
	assert.ErrorIs(t, err, session.ErrNoSession)
	assert.Empty(t, w.backend.Calls())
}

func TestSummarizeCollectionsEmpty(t *testing.T) {
	stats := SummarizeCollections(nil)
	assert.Zero(t, stats.Collections)
	assert.Nil(t, stats.MostRecent)
}
