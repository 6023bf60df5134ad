package postgres

import (
	"context"
	"fmt"

	"github.com/NordCoder/Upwatch/internal/domain/document"
)

var _ document.Store = (*DocumentStore)(nil)

// DocumentStore keeps JSON documents in the documents table, one row per
// (collection, id). Every operation is a single statement.
type DocumentStore struct {
	db *DB
}

func NewDocumentStore(db *DB) *DocumentStore { return &DocumentStore{db: db} }

const (
	qDocRead = `
SELECT body
FROM documents
WHERE collection = $1 AND id = $2;
`

	qDocUpdate = `
UPDATE documents
SET body = $3, updated_at = NOW()
WHERE collection = $1 AND id = $2;
`

	qDocList = `
SELECT id
FROM documents
WHERE collection = $1
ORDER BY id;
`
)

func (s *DocumentStore) Read(ctx context.Context, collection, id string) ([]byte, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	var body []byte
	if err := s.db.Pool.QueryRow(ctx, qDocRead, collection, id).Scan(&body); err != nil {
		if err = mapNotFound(err); err == document.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("read document: %w", err)
	}
	return body, nil
}

func (s *DocumentStore) Update(ctx context.Context, collection, id string, doc []byte) error {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	cmd, err := s.db.Pool.Exec(ctx, qDocUpdate, collection, id, doc)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (s *DocumentStore) List(ctx context.Context, collection string) ([]string, error) {
	ctx, cancel := s.db.withTimeout(ctx)
	defer cancel()

	rows, err := s.db.Pool.Query(ctx, qDocList, collection)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan document id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return ids, nil
}
