package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gravitrone/shelf/cli/internal/api"
)

type fileRecord struct {
	ID        int64  `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Bio       string `yaml:"bio,omitempty"`
	CreatedAt string `yaml:"created_at,omitempty"`
}

// FileStore keeps the session in a YAML file readable only by the owner.
type FileStore struct {
	mu   sync.Mutex
	path string
	log  *zap.Logger
}

// NewFileStore creates a store backed by path.
func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, log: log.Named("session")}
}

// Path returns the backing file.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load(_ context.Context) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var rec fileRecord
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return discard(s.log, s.path, err)
	}
	sess := Session{User: api.User{
		ID:        api.ID(rec.ID),
		Name:      rec.Name,
		Email:     rec.Email,
		Bio:       rec.Bio,
		CreatedAt: rec.CreatedAt,
	}}
	if !sess.Valid() {
		return discard(s.log, s.path, errors.New("missing user id"))
	}
	return &sess, nil
}

func (s *FileStore) Save(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	data, err := yaml.Marshal(fileRecord{
		ID:        int64(sess.User.ID),
		Name:      sess.User.Name,
		Email:     sess.User.Email,
		Bio:       sess.User.Bio,
		CreatedAt: sess.User.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return os.WriteFile(s.path, data, 0600)
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }
