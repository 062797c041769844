// Package store provides durable TokenStore implementations: a file slot for
// single-user tools, a bun/sqlite table for hosts that already carry a local
// database, and a redis key for shared deployments.
package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/goliatone/go-errors"
	"github.com/serenoa/go-session"
)

var _ session.TokenStore = (*FileStore)(nil)

// FileStore keeps the token in a single file, created with user-only
// permissions. The slot holds only the raw token string; expiry is recomputed
// from the token itself on each restore.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Get(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, errors.CategoryOperation, "unable to read token file")
	}

	return strings.TrimSpace(string(raw)), nil
}

func (s *FileStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return errors.Wrap(err, errors.CategoryOperation, "unable to create token directory")
		}
	}

	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "unable to write token file")
	}

	return nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, errors.CategoryOperation, "unable to remove token file")
	}

	return nil
}
