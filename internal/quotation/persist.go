package quotation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	pkgredis "github.com/angelmondragon/carpenter-backend/pkg/redis"
)

// StorageKey names the persisted cart record.
const StorageKey = "carpenter-quotation"

// ErrMissing is returned by a KV when a key has never been written.
var ErrMissing = errors.New("quotation: key not found")

// Persister loads and saves a cart snapshot. A cart that was never saved
// loads as an empty snapshot without error.
type Persister interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}

// FilePersister keeps the cart in a JSON file, for the CLI.
type FilePersister struct {
	path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

// DefaultFilePath is ~/.carpenter/carpenter-quotation.json.
func DefaultFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".carpenter", StorageKey+".json"), nil
}

func (p *FilePersister) Path() string {
	return p.path
}

func (p *FilePersister) Load(ctx context.Context) (Snapshot, error) {
	raw, err := os.ReadFile(p.path)
	if errors.Is(err, os.ErrNotExist) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("read cart file: %w", err)
	}
	return decodeSnapshot(raw)
}

// Save writes to a temp file in the same directory and renames it over the
// old record so a crash never leaves a truncated cart.
func (p *FilePersister) Save(ctx context.Context, snap Snapshot) error {
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create cart dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, StorageKey+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp cart file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write cart file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close cart file: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.path); err != nil {
		return fmt.Errorf("replace cart file: %w", err)
	}
	return nil
}

// KV is the key/value surface server-side carts need; *redis.Client
// satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisPersister stores one cart under a single key with no expiry. Only an
// explicit clear empties the cart.
type RedisPersister struct {
	kv  KV
	key string
}

func NewRedisPersister(kv KV, key string) *RedisPersister {
	return &RedisPersister{kv: kv, key: key}
}

func (p *RedisPersister) Load(ctx context.Context) (Snapshot, error) {
	raw, err := p.kv.Get(ctx, p.key)
	if pkgredis.IsNil(err) || errors.Is(err, ErrMissing) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("load cart %s: %w", p.key, err)
	}
	return decodeSnapshot([]byte(raw))
}

func (p *RedisPersister) Save(ctx context.Context, snap Snapshot) error {
	if len(snap.Items) == 0 {
		if err := p.kv.Del(ctx, p.key); err != nil {
			return fmt.Errorf("clear cart %s: %w", p.key, err)
		}
		return nil
	}
	raw, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	if err := p.kv.Set(ctx, p.key, string(raw), 0); err != nil {
		return fmt.Errorf("save cart %s: %w", p.key, err)
	}
	return nil
}

// MemoryKV is a process-local KV used when Redis is not configured.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: map[string]string{}}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrMissing
	}
	return v, nil
}

func (m *MemoryKV) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *MemoryKV) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

// NewMemoryPersister keeps a single cart in memory.
func NewMemoryPersister() *RedisPersister {
	return NewRedisPersister(NewMemoryKV(), StorageKey)
}

func encodeSnapshot(snap Snapshot) ([]byte, error) {
	if snap.Items == nil {
		snap.Items = []Line{}
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode cart: %w", err)
	}
	return raw, nil
}

func decodeSnapshot(raw []byte) (Snapshot, error) {
	var snap Snapshot
	if len(raw) == 0 {
		return snap, nil
	}
	if err := json.Unmarshal(raw, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode cart: %w", err)
	}
	return snap, nil
}
