package auditlog

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/spf13/afero"
)

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(buf.Len()))
	base64.StdEncoding.Encode(out, buf.Bytes())
	return out, nil
}

func decompress(encoded []byte) ([]byte, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(encoded)))
	n, err := base64.StdEncoding.Decode(raw, bytes.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw[:n]))
	if err != nil {
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	return out, nil
}

// Compress writes the current content of <logID>.log into a new immutable
// snapshot <snapshotID>.gz.b64. The snapshot must not exist yet.
func (s *Store) Compress(logID, snapshotID string) error {
	data, err := s.readActive(logID)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return ErrEmptyLog
	}
	encoded, err := compress(data)
	if err != nil {
		return fmt.Errorf("compress log: %w", err)
	}
	f, err := s.fs.OpenFile(s.snapshotPath(snapshotID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o444)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if _, err := f.Write(encoded); err != nil {
		_ = f.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

// Decompress returns the original line-delimited text of a snapshot.
func (s *Store) Decompress(snapshotID string) (string, error) {
	encoded, err := afero.ReadFile(s.fs, s.snapshotPath(snapshotID))
	if err != nil {
		return "", fmt.Errorf("read snapshot: %w", err)
	}
	out, err := decompress(encoded)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func SnapshotID(logID string, at time.Time) string {
	return fmt.Sprintf("%s-%d", logID, at.UnixMilli())
}

// Rotate compresses the active log into a snapshot named after logID and at,
// then truncates the active log. Lines appended between the read and the
// truncate are lost. An empty log is left alone and ErrEmptyLog is returned.
func (s *Store) Rotate(logID string, at time.Time) (string, error) {
	snapshotID := SnapshotID(logID, at)
	if err := s.Compress(logID, snapshotID); err != nil {
		return "", err
	}
	if err := s.Truncate(logID); err != nil {
		return snapshotID, err
	}
	return snapshotID, nil
}
