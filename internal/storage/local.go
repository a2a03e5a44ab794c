package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// LocalStore keeps uploaded files on disk under a single directory, addressed
// by an opaque key so user-supplied file names never touch the filesystem.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save streams the content to disk and returns the generated key and the
// number of bytes written.
func (s *LocalStore) Save(r io.Reader, originalName string) (string, int64, error) {
	key := uuid.NewString() + filepath.Ext(originalName)
	f, err := os.Create(filepath.Join(s.dir, key))
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(f.Name())
		return "", 0, err
	}
	return key, n, nil
}

func (s *LocalStore) Open(key string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.dir, filepath.Base(key)))
}

func (s *LocalStore) Remove(key string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(key)))
}
