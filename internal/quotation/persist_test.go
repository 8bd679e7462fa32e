package quotation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilePersisterMissingFileIsEmpty(t *testing.T) {
	p := NewFilePersister(filepath.Join(t.TempDir(), "none", StorageKey+".json"))
	snap, err := p.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Items)
}

func TestFilePersisterRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), ".carpenter", StorageKey+".json")
	p := NewFilePersister(path)

	s := NewStore(p)
	s.Add(ctx, ProductRef{ID: 2, Name: "Shaker"}, SelectedDimensions{Width: "32"}, 2)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[{"cartId":"2--32-","product":{"id":2,"name":"Shaker"},"selectedDimensions":{"width":"32"},"quantity":2}]}`, string(raw))

	reloaded := NewStore(NewFilePersister(path))
	reloaded.Load(ctx)
	assert.Equal(t, 2, reloaded.ItemCount())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files should not be left behind")
}

func TestFilePersisterCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), StorageKey+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	var seen error
	s := NewStore(NewFilePersister(path), WithErrorHandler(func(err error) { seen = err }))
	s.Load(context.Background())
	assert.Error(t, seen)
	assert.True(t, s.Loaded())
	assert.Empty(t, s.Items())
}

type recordingKV struct {
	*MemoryKV
	ttls []time.Duration
	dels int
	err  error
}

func (r *recordingKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r.err != nil {
		return r.err
	}
	r.ttls = append(r.ttls, ttl)
	return r.MemoryKV.Set(ctx, key, value, ttl)
}

func (r *recordingKV) Del(ctx context.Context, keys ...string) error {
	r.dels++
	return r.MemoryKV.Del(ctx, keys...)
}

func TestRedisPersisterWritesWithoutExpiry(t *testing.T) {
	ctx := context.Background()
	kv := &recordingKV{MemoryKV: NewMemoryKV()}
	p := NewRedisPersister(kv, "carpenter:carpenter-quotation:abc")

	s := NewStore(p)
	line := s.Add(ctx, ProductRef{ID: 1, Name: "Oak"}, SelectedDimensions{}, 1)
	assert.Equal(t, []time.Duration{0}, kv.ttls)

	raw, err := kv.Get(ctx, "carpenter:carpenter-quotation:abc")
	require.NoError(t, err)
	assert.Contains(t, raw, `"cartId":"1---"`)

	s.Remove(ctx, line.CartID)
	assert.Equal(t, 1, kv.dels)
	_, err = kv.Get(ctx, "carpenter:carpenter-quotation:abc")
	assert.ErrorIs(t, err, ErrMissing)
}

func TestRedisPersisterWrapsErrors(t *testing.T) {
	kv := &recordingKV{MemoryKV: NewMemoryKV(), err: errors.New("connection reset")}
	p := NewRedisPersister(kv, "k")
	err := p.Save(context.Background(), Snapshot{Items: []Line{{CartID: "1---", Quantity: 1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save cart k")
}
