package controller

import (
	"context"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// Entity is anything with a backend-assigned id.
type Entity interface {
	EntityID() api.ID
}

// Backend is one endpoint family: list under a parent, create, update and
// delete by id. Drafts are converted to the wire shape inside Backend.
type Backend[T Entity, D any] interface {
	List(ctx context.Context, parent api.ID) ([]T, error)
	Create(ctx context.Context, parent api.ID, draft D) (*T, error)
	Update(ctx context.Context, id api.ID, draft D) (*T, error)
	Delete(ctx context.Context, id api.ID) error
}

// List caches the entities under one parent and reconciles the cache with
// each successful mutation. Network calls run outside the lock, so concurrent
// mutations apply in the order they resolve.
type List[T Entity, D any] struct {
	mu      sync.Mutex
	backend Backend[T, D]
	confirm Confirmer
	prompt  func(T) string
	log     *zap.Logger

	parent api.ID
	items  []T
	err    error
}

// NewList creates a list controller. prompt builds the delete confirmation
// text; a nil confirm deletes without asking.
func NewList[T Entity, D any](backend Backend[T, D], confirm Confirmer, prompt func(T) string, log *zap.Logger) *List[T, D] {
	if confirm == nil {
		confirm = AlwaysConfirm
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &List[T, D]{
		backend: backend,
		confirm: confirm,
		prompt:  prompt,
		log:     log,
		items:   []T{},
	}
}

// Load fetches the entities under parent. On failure the list is emptied and
// the error is logged and returned.
func (l *List[T, D]) Load(ctx context.Context, parent api.ID) error {
	l.mu.Lock()
	l.parent = parent
	l.mu.Unlock()

	items, err := l.backend.List(ctx, parent)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.log.Warn("load failed", zap.Stringer("parent", parent), zap.Error(err))
		l.items = []T{}
		l.err = err
		return err
	}
	l.items = items
	l.err = nil
	return nil
}

// Create appends the server's copy of the new entity.
func (l *List[T, D]) Create(ctx context.Context, draft D) (*T, error) {
	created, err := l.backend.Create(ctx, l.Parent(), draft)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = err
		return nil, err
	}
	l.items = append(l.items, *created)
	l.err = nil
	return created, nil
}

// Update replaces the matching entity in place.
func (l *List[T, D]) Update(ctx context.Context, id api.ID, draft D) (*T, error) {
	updated, err := l.backend.Update(ctx, id, draft)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = err
		return nil, err
	}
	for i := range l.items {
		if l.items[i].EntityID() == id {
			l.items[i] = *updated
		}
	}
	l.err = nil
	return updated, nil
}

// Delete asks for confirmation, then removes the entity. It reports whether
// anything was deleted; a declined prompt is not an error.
func (l *List[T, D]) Delete(ctx context.Context, id api.ID) (bool, error) {
	target, ok := l.Find(id)
	if !ok {
		return false, ErrNotFound
	}

	prompt := ""
	if l.prompt != nil {
		prompt = l.prompt(target)
	}
	yes, err := l.confirm.Confirm(ctx, prompt)
	if err != nil || !yes {
		return false, err
	}

	err = l.backend.Delete(ctx, id)
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		l.err = err
		return false, err
	}
	l.items = slices.DeleteFunc(l.items, func(it T) bool { return it.EntityID() == id })
	l.err = nil
	return true, nil
}

// Items returns a copy of the cached list in insertion order.
func (l *List[T, D]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Find looks an entity up by id.
func (l *List[T, D]) Find(id api.ID) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, it := range l.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

func (l *List[T, D]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Parent is the key of the last Load.
func (l *List[T, D]) Parent() api.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.parent
}

// Err is the error of the last operation, nil after a success.
func (l *List[T, D]) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
