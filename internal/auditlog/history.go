package auditlog

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/NordCoder/Upwatch/internal/domain/run"
)

var _ run.History = (*Store)(nil)

// Snapshots returns the snapshot ids of logID, oldest first.
func (s *Store) Snapshots(logID string) ([]string, error) {
	names, err := s.List(true)
	if err != nil {
		return nil, err
	}
	type snap struct {
		id string
		ms int64
	}
	var snaps []snap
	prefix := logID + "-"
	for _, n := range names {
		if !strings.HasPrefix(n, prefix) {
			continue
		}
		ms, err := strconv.ParseInt(strings.TrimPrefix(n, prefix), 10, 64)
		if err != nil {
			continue
		}
		if exists, _ := s.snapshotExists(n); !exists {
			continue
		}
		snaps = append(snaps, snap{id: n, ms: ms})
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].ms < snaps[j].ms })

	out := make([]string, 0, len(snaps))
	for _, sn := range snaps {
		out = append(out, sn.id)
	}
	return out, nil
}

func (s *Store) snapshotExists(snapshotID string) (bool, error) {
	_, err := s.fs.Stat(s.snapshotPath(snapshotID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// History decodes every entry recorded for checkID: rotated snapshots in
// rotation order, then the active log.
func (s *Store) History(_ context.Context, checkID string) ([]*run.Run, error) {
	snaps, err := s.Snapshots(checkID)
	if err != nil {
		return nil, err
	}
	var out []*run.Run
	for _, id := range snaps {
		text, err := s.Decompress(id)
		if err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
		if out, err = parseLines(out, text); err != nil {
			return nil, fmt.Errorf("snapshot %s: %w", id, err)
		}
	}

	active, err := s.readActive(checkID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	if out, err = parseLines(out, string(active)); err != nil {
		return nil, fmt.Errorf("active log: %w", err)
	}
	return out, nil
}

func parseLines(dst []*run.Run, text string) ([]*run.Run, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var r run.Run
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return dst, fmt.Errorf("decode entry: %w", err)
		}
		dst = append(dst, &r)
	}
	return dst, sc.Err()
}
