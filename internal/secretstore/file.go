package secretstore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/credstore/internal/common"
	"github.com/dmitrijs2005/credstore/internal/filex"
)

// FileStore persists one file per credential identifier inside a dedicated
// directory. Files are created with O_EXCL, so a concurrent Save for the
// same identifier loses with common.ErrConflict instead of overwriting;
// saves for distinct identifiers touch distinct files and never contend.
type FileStore struct {
	dir string
}

// NewFileStore ensures dir exists and returns a store rooted there.
// Construction itself writes no secret material.
func NewFileStore(dir string) (*FileStore, error) {
	d, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStoreIO, err)
	}
	return &FileStore{dir: d}, nil
}

// path maps an identifier to a filename. Identifiers are hex-encoded so that
// path separators or dot segments in an id cannot escape the store directory.
func (s *FileStore) path(id string) string {
	return filepath.Join(s.dir, hex.EncodeToString([]byte(id))+".cred")
}

// Save writes data to the identifier's file, syncs it, and closes the handle
// on every exit path. Partial files from failed writes are removed so a
// retry does not hit a spurious conflict.
func (s *FileStore) Save(_ context.Context, id string, data []byte) (err error) {
	p := s.path(id)

	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", common.ErrConflict, id)
		}
		return fmt.Errorf("%w: open: %v", common.ErrStoreIO, err)
	}

	defer func() {
		cerr := f.Close()
		if err == nil && cerr != nil {
			err = fmt.Errorf("%w: close: %v", common.ErrStoreIO, cerr)
		}
		if err != nil {
			_ = os.Remove(p)
		}
	}()

	if _, werr := f.Write(data); werr != nil {
		return fmt.Errorf("%w: write: %v", common.ErrStoreIO, werr)
	}

	if serr := f.Sync(); serr != nil {
		return fmt.Errorf("%w: sync: %v", common.ErrStoreIO, serr)
	}

	return nil
}

func (s *FileStore) Load(_ context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: read: %v", common.ErrStoreIO, err)
	}
	return data, nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	if err := os.Remove(s.path(id)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", common.ErrNotFound, id)
		}
		return fmt.Errorf("%w: remove: %v", common.ErrStoreIO, err)
	}
	return nil
}
