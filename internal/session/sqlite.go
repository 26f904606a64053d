package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/gravitrone/shelf/cli/internal/api"
)

const userKey = "user"

// SQLiteStore keeps the session as a JSON value under the "user" key of a
// small key/value table.
type SQLiteStore struct {
	db  *sql.DB
	own bool
	log *zap.Logger
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, log *zap.Logger) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("create session dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	db.SetMaxOpenConns(1)

	store, err := NewSQLiteStore(ctx, db, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	store.own = true
	return store, nil
}

// NewSQLiteStore wraps an open database, creating the table if missing.
func NewSQLiteStore(ctx context.Context, db *sql.DB, log *zap.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			key   TEXT PRIMARY KEY,
			value BLOB NOT NULL
		)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &SQLiteStore{db: db, log: log.Named("session")}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*Session, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, userKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kv[%s]: %w", userKey, err)
	}

	var user api.User
	if err := json.Unmarshal(value, &user); err != nil {
		return discard(s.log, "sqlite", err)
	}
	sess := Session{User: user}
	if !sess.Valid() {
		return discard(s.log, "sqlite", errors.New("missing user id"))
	}
	return &sess, nil
}

func (s *SQLiteStore) Save(ctx context.Context, sess Session) error {
	value, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, userKey, value)
	if err != nil {
		return fmt.Errorf("failed to set kv[%s]: %w", userKey, err)
	}
	return nil
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, userKey)
	if err != nil {
		return fmt.Errorf("failed to delete kv[%s]: %w", userKey, err)
	}
	return nil
}

// Close closes the database if the store opened it.
func (s *SQLiteStore) Close() error {
	if !s.own {
		return nil
	}
	return s.db.Close()
}
