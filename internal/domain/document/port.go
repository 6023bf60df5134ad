package document

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("document not found")

// Store is a key-value persistence collaborator holding one JSON document per
// (collection, id). Only single-document atomicity is assumed.
type Store interface {
	Read(ctx context.Context, collection, id string) ([]byte, error)
	Update(ctx context.Context, collection, id string, doc []byte) error
	List(ctx context.Context, collection string) ([]string, error)
}
