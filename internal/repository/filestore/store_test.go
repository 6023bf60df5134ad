package filestore

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/NordCoder/Upwatch/internal/domain/document"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/data", 0o755))
	return New(fs, "/data")
}

func TestStore_CreateReadUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Create(ctx, "checks", "abc", []byte(`{"state":"down","url":"example.com"}`)))

	got, err := s.Read(ctx, "checks", "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{"state":"down","url":"example.com"}`, string(got))

	require.NoError(t, s.Update(ctx, "checks", "abc", []byte(`{"state":"up"}`)))
	got, err = s.Read(ctx, "checks", "abc")
	require.NoError(t, err)
	assert.Equal(t, `{"state":"up"}`, string(got))
}

func TestStore_CreateRejectsDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Create(ctx, "checks", "abc", []byte(`{}`)))
	assert.Error(t, s.Create(ctx, "checks", "abc", []byte(`{}`)))
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.Read(ctx, "checks", "missing")
	assert.ErrorIs(t, err, document.ErrNotFound)

	err = s.Update(ctx, "checks", "missing", []byte(`{}`))
	assert.ErrorIs(t, err, document.ErrNotFound)
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	ids, err := s.List(ctx, "checks")
	require.NoError(t, err)
	assert.Empty(t, ids)

	for _, id := range []string{"ccc", "aaa", "bbb"} {
		require.NoError(t, s.Create(ctx, "checks", id, []byte(`{}`)))
	}
	require.NoError(t, afero.WriteFile(s.fs, "/data/checks/notes.txt", []byte("x"), 0o644))

	ids, err = s.List(ctx, "checks")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "bbb", "ccc"}, ids)

	require.NoError(t, s.Update(ctx, "checks", "bbb", []byte(`{"state":"up"}`)))
	ids, err = s.List(ctx, "checks")
	require.NoError(t, err)
	assert.Equal(t, []string{"aaa", "bbb", "ccc"}, ids)
}

func TestStore_UpdateLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Create(ctx, "checks", "abc", []byte(`{"state":"down"}`)))

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Update(ctx, "checks", "abc", []byte(`{"state":"up"}`)))
	}

	infos, err := afero.ReadDir(s.fs, "/data/checks")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "abc.json", infos[0].Name())
}

func TestStore_ConcurrentReadSeesWholeDocument(t *testing.T) {
	ctx := context.Background()
	s := New(afero.NewOsFs(), t.TempDir())

	short := []byte(`{"state":"up"}`)
	long := []byte(`{"state":"down","url":"example.com/a/rather/long/path?with=query&and=more","success_codes":[200,201,202,203,204]}`)
	require.NoError(t, s.Create(ctx, "checks", "abc", long))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			doc := short
			if i%2 == 1 {
				doc = long
			}
			assert.NoError(t, s.Update(ctx, "checks", "abc", doc))
		}
	}()

	torn := 0
	for i := 0; i < 2000; i++ {
		b, err := s.Read(ctx, "checks", "abc")
		require.NoError(t, err)
		var v map[string]any
		if json.Unmarshal(b, &v) != nil {
			torn++
		}
	}
	close(stop)
	wg.Wait()

	assert.Zero(t, torn)
}
