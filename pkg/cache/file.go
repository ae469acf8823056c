package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileCache implements Cache as a single JSON document on disk. It plays the
// role of a client's local storage and survives restarts.
type FileCache struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

type fileEntry struct {
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// NewFileCache creates a cache stored at path. Parent directories are created on first write.
func NewFileCache(path string) *FileCache {
	return &FileCache{path: path, now: time.Now}
}

// OpenLocal returns a FileCache at path. When path is empty or its directory
// cannot be created it returns an in-process MemoryCache along with the reason,
// so the client keeps working for the current run without persistence.
func OpenLocal(path string) (Cache, error) {
	if path == "" {
		return NewMemoryCache(), errors.New("file cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return NewMemoryCache(), fmt.Errorf("file cache unavailable: %w", err)
	}
	return NewFileCache(path), nil
}

func (c *FileCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return nil, err
	}
	entry, ok := entries[key]
	if !ok || (!entry.ExpiresAt.IsZero() && !c.now().Before(entry.ExpiresAt)) {
		return nil, ErrCacheMiss
	}
	return entry.Value, nil
}

func (c *FileCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return err
	}
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = c.now().Add(ttl)
	}
	entries[key] = entry
	return c.write(entries)
}

func (c *FileCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries, err := c.read()
	if err != nil {
		return err
	}
	delete(entries, key)
	return c.write(entries)
}

func (c *FileCache) Exists(ctx context.Context, key string) (bool, error) {
	_, err := c.Get(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return false, nil
	}
	return err == nil, err
}

func (c *FileCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.Remove(c.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file cache clear error: %w", err)
	}
	return nil
}

func (c *FileCache) read() (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file cache read error: %w", err)
	}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		// a corrupt file is treated as empty storage
		return make(map[string]fileEntry), nil
	}
	return entries, nil
}

func (c *FileCache) write(entries map[string]fileEntry) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("file cache mkdir error: %w", err)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("file cache encode error: %w", err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("file cache write error: %w", err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("file cache rename error: %w", err)
	}
	return nil
}
