// Package filestore keeps one JSON document per file, the layout the check
// CRUD service writes under its data directory.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/NordCoder/Upwatch/internal/domain/document"
	"github.com/spf13/afero"
)

const (
	ext    = ".json"
	tmpExt = ".tmp"
)

var _ document.Store = (*Store)(nil)

// Store keeps one JSON file per document under <baseDir>/<collection>/<id>.json.
type Store struct {
	fs      afero.Fs
	baseDir string
}

func New(fs afero.Fs, baseDir string) *Store {
	return &Store{fs: fs, baseDir: baseDir}
}

func (s *Store) path(collection, id string) string {
	return filepath.Join(s.baseDir, collection, id+ext)
}

// Create writes a new document and fails if one already exists. Records are
// owned by the check CRUD service; the monitor only reads and updates them, so
// Create serves seeding and tests.
func (s *Store) Create(_ context.Context, collection, id string, doc []byte) error {
	if err := s.fs.MkdirAll(filepath.Join(s.baseDir, collection), 0o755); err != nil {
		return fmt.Errorf("mkdir collection: %w", err)
	}
	f, err := s.fs.OpenFile(s.path(collection, id), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create %s/%s: %w", collection, id, err)
	}
	if _, err := f.Write(doc); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	return f.Close()
}

func (s *Store) Read(_ context.Context, collection, id string) ([]byte, error) {
	b, err := afero.ReadFile(s.fs, s.path(collection, id))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, document.ErrNotFound
		}
		return nil, fmt.Errorf("read %s/%s: %w", collection, id, err)
	}
	return b, nil
}

// Update replaces an existing document; it never creates one. The new body is
// written to a temp file next to the target and renamed over it, so readers
// see either the old or the new document.
func (s *Store) Update(_ context.Context, collection, id string, doc []byte) error {
	target := s.path(collection, id)
	if _, err := s.fs.Stat(target); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return document.ErrNotFound
		}
		return fmt.Errorf("stat %s/%s: %w", collection, id, err)
	}

	tmp, err := afero.TempFile(s.fs, filepath.Dir(target), "."+id+"-*"+tmpExt)
	if err != nil {
		return fmt.Errorf("temp file %s/%s: %w", collection, id, err)
	}
	if _, err := tmp.Write(doc); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("write %s/%s: %w", collection, id, err)
	}
	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("close %s/%s: %w", collection, id, err)
	}
	if err := s.fs.Rename(tmp.Name(), target); err != nil {
		_ = s.fs.Remove(tmp.Name())
		return fmt.Errorf("replace %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) List(_ context.Context, collection string) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, filepath.Join(s.baseDir, collection))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	ids := make([]string, 0, len(infos))
	for _, fi := range infos {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), ext) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(fi.Name(), ext))
	}
	sort.Strings(ids)
	return ids, nil
}

// Ping reports whether the base directory is reachable.
func (s *Store) Ping(_ context.Context) error {
	_, err := s.fs.Stat(s.baseDir)
	return err
}
