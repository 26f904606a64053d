// Package session persists the logged-in user between runs and gates
// protected screens on its presence.
package session

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/gravitrone/shelf/cli/internal/api"
)

// ErrNoSession means nobody is logged in, or the stored record was unusable.
var ErrNoSession = errors.New("no session")

// Session is the locally persisted login.
type Session struct {
	User api.User
}

// Valid reports whether the record identifies a user.
func (s Session) Valid() bool {
	return s.User.ID > 0
}

// Store persists at most one Session.
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s Session) error
	Clear(ctx context.Context) error
	Close() error
}

// Backends accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Paths locates the on-disk stores.
type Paths struct {
	File     string
	Database string
}

// Open returns the store for backend.
func Open(ctx context.Context, backend string, paths Paths, log *zap.Logger) (Store, error) {
	switch backend {
	case BackendFile, "":
		return NewFileStore(paths.File, log), nil
	case BackendSQLite:
		return OpenSQLite(ctx, paths.Database, log)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown session backend %q", backend)
	}
}

// discard logs a malformed record and reports it as absent.
func discard(log *zap.Logger, where string, err error) (*Session, error) {
	log.Warn("discarding malformed session", zap.String("store", where), zap.Error(err))
	return nil, ErrNoSession
}
