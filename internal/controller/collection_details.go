package controller

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// CollectionDetails manages the items of one of the user's own collections.
type CollectionDetails struct {
	gate        Sessions
	collections CollectionsAPI
	log         *zap.Logger

	Items *List[api.Item, ItemDraft]
	Form  *Form[api.Item, ItemDraft]

	mu         sync.Mutex
	user       api.User
	collection api.Collection
}

// CollectionsItemsAPI is what CollectionDetails needs.
type CollectionsItemsAPI interface {
	CollectionsAPI
	ItemsAPI
}

func NewCollectionDetails(client CollectionsItemsAPI, gate Sessions, confirm Confirmer, log *zap.Logger) *CollectionDetails {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("collection")
	list := NewList[api.Item, ItemDraft](ItemBackend{API: client}, confirm, func(it api.Item) string {
		return fmt.Sprintf("Delete %q?", it.Name)
	}, log)
	return &CollectionDetails{
		gate:        gate,
		collections: client,
		log:         log,
		Items:       list,
		Form:        NewForm(list, gate, BlankItemDraft, ItemDraftFrom),
	}
}

// Mount finds collection id among the user's own collections and loads its
// items. Unknown ids, and failures to list the collections, send the user
// back to the dashboard.
func (c *CollectionDetails) Mount(ctx context.Context, id api.ID) (Route, error) {
	sess, err := requireSession(ctx, c.gate)
	if err != nil {
		return RouteLogin, err
	}

	owned, err := c.collections.ListCollections(ctx, sess.User.ID)
	if err != nil {
		c.log.Warn("list collections failed", zap.Error(err))
		return RouteDashboard, err
	}

	var found *api.Collection
	for i := range owned {
		if owned[i].ID == id {
			found = &owned[i]
			break
		}
	}
	if found == nil {
		return RouteDashboard, nil
	}

	c.mu.Lock()
	c.user = sess.User
	c.collection = *found
	c.mu.Unlock()

	return RouteNone, c.Items.Load(ctx, id)
}

func (c *CollectionDetails) Collection() api.Collection {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collection
}

func (c *CollectionDetails) User() api.User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Delete removes an item after confirmation.
func (c *CollectionDetails) Delete(ctx context.Context, id api.ID) (bool, error) {
	return c.Items.Delete(ctx, id)
}

// TotalValue is the sum of quantity times estimated value over the items.
func (c *CollectionDetails) TotalValue() float64 {
	return TotalValue(c.Items.Items())
}

// TotalValue sums quantity times estimated value.
func TotalValue(items []api.Item) float64 {
	total := 0.0
	for _, it := range items {
		total += float64(it.Quantity) * it.EstimatedValue
	}
	return total
}
