package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/NordCoder/Upwatch/internal/domain/run"
	"github.com/spf13/afero"
)

const (
	activeExt   = ".log"
	snapshotExt = ".gz.b64"
)

var ErrEmptyLog = errors.New("log is empty")

var _ run.Log = (*Store)(nil)

// Store owns a directory holding one active log per check id and any number of
// rotated snapshots.
type Store struct {
	fs  afero.Fs
	dir string
}

func New(fs afero.Fs, dir string) *Store {
	return &Store{fs: fs, dir: dir}
}

func (s *Store) Init() error {
	return s.fs.MkdirAll(s.dir, 0o755)
}

func (s *Store) activePath(logID string) string {
	return filepath.Join(s.dir, logID+activeExt)
}

func (s *Store) snapshotPath(snapshotID string) string {
	return filepath.Join(s.dir, snapshotID+snapshotExt)
}

// Append writes one JSON line for the run to the check's active log.
func (s *Store) Append(_ context.Context, r *run.Run) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	return s.AppendLine(r.Check.ID, b)
}

// AppendLine appends line and a trailing newline to <logID>.log, creating it if absent.
func (s *Store) AppendLine(logID string, line []byte) error {
	f, err := s.fs.OpenFile(s.activePath(logID), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log for append: %w", err)
	}
	buf := make([]byte, 0, len(line)+1)
	buf = append(append(buf, line...), '\n')
	if _, err := f.Write(buf); err != nil {
		_ = f.Close()
		return fmt.Errorf("append log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log: %w", err)
	}
	return nil
}

// List returns active log ids and, when includeCompressed is set, snapshot ids.
func (s *Store) List(includeCompressed bool) ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("read log dir: %w", err)
	}
	var names []string
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		name := fi.Name()
		switch {
		case strings.HasSuffix(name, activeExt):
			names = append(names, strings.TrimSuffix(name, activeExt))
		case includeCompressed && strings.HasSuffix(name, snapshotExt):
			names = append(names, strings.TrimSuffix(name, snapshotExt))
		}
	}
	return names, nil
}

// Truncate empties the active log.
func (s *Store) Truncate(logID string) error {
	f, err := s.fs.OpenFile(s.activePath(logID), os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log for truncate: %w", err)
	}
	if err := f.Truncate(0); err != nil {
		_ = f.Close()
		return fmt.Errorf("truncate log: %w", err)
	}
	return f.Close()
}

func (s *Store) readActive(logID string) ([]byte, error) {
	b, err := afero.ReadFile(s.fs, s.activePath(logID))
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return b, nil
}
