package cache

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// FileCache provides file-based caching for provider responses with a
// small in-memory front. Freshness is decided per read, so the same
// stored entry can serve callers with different TTL requirements.
type FileCache struct {
	cacheDir string
	mu       sync.RWMutex
	memory   map[string]*entry
}

type entry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFileCache creates a cache rooted at cacheDir
func NewFileCache(cacheDir string) *FileCache {
	if cacheDir == "" {
		cacheDir = "cache/advisor"
	}

	os.MkdirAll(cacheDir, 0755)

	return &FileCache{
		cacheDir: cacheDir,
		memory:   make(map[string]*entry),
	}
}

// Get retrieves an item no older than ttl
func (c *FileCache) Get(key string, ttl time.Duration) ([]byte, bool) {
	c.mu.RLock()
	if e, ok := c.memory[key]; ok && time.Since(e.Timestamp) <= ttl {
		c.mu.RUnlock()
		return e.Data, true
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	cacheFile := c.filePath(key)

	data, err := os.ReadFile(cacheFile)
	if err != nil {
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		os.Remove(cacheFile)
		return nil, false
	}

	if time.Since(e.Timestamp) > ttl {
		return nil, false
	}

	c.memory[key] = &e
	return e.Data, true
}

// Set stores an item, recording the time of write
func (c *FileCache) Set(key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &entry{
		Key:       key,
		Data:      data,
		Timestamp: time.Now(),
	}
	c.memory[key] = e

	encoded, err := json.Marshal(e)
	if err != nil {
		return err
	}

	return os.WriteFile(c.filePath(key), encoded, 0644)
}

// Delete removes an item from cache
func (c *FileCache) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.memory, key)
	return os.Remove(c.filePath(key))
}

// Clear removes all cache entries
func (c *FileCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.memory = make(map[string]*entry)
	return os.RemoveAll(c.cacheDir)
}

// CleanupExpired removes stored entries older than maxAge
func (c *FileCache) CleanupExpired(maxAge time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.memory {
		if time.Since(e.Timestamp) > maxAge {
			delete(c.memory, key)
		}
	}

	files, err := os.ReadDir(c.cacheDir)
	if err != nil {
		return err
	}

	for _, f := range files {
		if f.IsDir() {
			continue
		}

		info, err := f.Info()
		if err != nil {
			continue
		}

		if time.Since(info.ModTime()) > maxAge {
			os.Remove(filepath.Join(c.cacheDir, f.Name()))
		}
	}

	return nil
}

func (c *FileCache) filePath(key string) string {
	hash := md5.Sum([]byte(key))
	return filepath.Join(c.cacheDir, fmt.Sprintf("%x.json", hash))
}

// GetOrFetch retrieves a fresh entry or fetches via fetchFn and stores the result
func (c *FileCache) GetOrFetch(key string, ttl time.Duration, fetchFn func() ([]byte, error)) ([]byte, error) {
	if data, ok := c.Get(key, ttl); ok {
		return data, nil
	}

	data, err := fetchFn()
	if err != nil {
		return nil, err
	}

	// Stale data is better than no data on write failure
	c.Set(key, data)

	return data, nil
}

// MakeKey creates a cache key from parts
func MakeKey(parts ...string) string {
	return strings.Join(parts, ":")
}
