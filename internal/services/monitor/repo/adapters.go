package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/NordCoder/Upwatch/internal/domain/check"
	"github.com/NordCoder/Upwatch/internal/domain/document"
)

const legacyLastChecked = "lastChecked"

var _ check.Repo = CheckStore{}

// CheckStore reads and writes check records as JSON documents.
type CheckStore struct {
	S          document.Store
	Collection string
}

func (a CheckStore) collection() string {
	if a.Collection == "" {
		return check.Collection
	}
	return a.Collection
}

func (a CheckStore) Read(ctx context.Context, id string) (check.Raw, error) {
	b, err := a.S.Read(ctx, a.collection(), id)
	if err != nil {
		return nil, err
	}
	var raw check.Raw
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode check %s: %w", id, err)
	}
	return raw, nil
}

// Update writes the engine-owned fields (state, last_checked) into the stored
// document and leaves every other key as the record owner wrote it. A legacy
// lastChecked key is kept in sync as Unix milliseconds.
func (a CheckStore) Update(ctx context.Context, c *check.Check) error {
	doc, err := a.Read(ctx, c.ID)
	if err != nil {
		if errors.Is(err, document.ErrNotFound) {
			return err
		}
		doc = nil
	}
	if doc == nil {
		if doc, err = encodeRaw(c); err != nil {
			return err
		}
	}

	doc["state"] = c.State
	if c.LastChecked != nil {
		doc["last_checked"] = c.LastChecked.UTC().Format(time.RFC3339Nano)
		if _, ok := doc[legacyLastChecked]; ok {
			doc[legacyLastChecked] = c.LastChecked.UnixMilli()
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode check %s: %w", c.ID, err)
	}
	return a.S.Update(ctx, a.collection(), c.ID, b)
}

func encodeRaw(c *check.Check) (check.Raw, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode check %s: %w", c.ID, err)
	}
	var raw check.Raw
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("encode check %s: %w", c.ID, err)
	}
	return raw, nil
}

func (a CheckStore) List(ctx context.Context) ([]string, error) {
	return a.S.List(ctx, a.collection())
}
