package wallpaper

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wallshift/wallshift/internal/colour"
)

// ColourCache remembers the ranked colours estimated for an image so
// re-showing it skips the clustering pass. Entries are keyed by image
// identifier and algorithm; changing the tuning options invalidates
// nothing automatically, which is why the CLI exposes a redo flag.
type ColourCache struct {
	mu      sync.Mutex
	path    string
	entries map[string][]colour.Pixel
	dirty   bool
}

// NewColourCache loads the cache stored at path. A missing file yields
// an empty cache.
func NewColourCache(path string) (*ColourCache, error) {
	cache := &ColourCache{
		path:    path,
		entries: make(map[string][]colour.Pixel),
	}

	data, err := os.ReadFile(path) // #nosec G304 - Cache path under the app's own data dir
	if err != nil {
		if os.IsNotExist(err) {
			return cache, nil
		}
		return nil, fmt.Errorf("failed to read colour cache: %w", err)
	}
	if err := json.Unmarshal(data, &cache.entries); err != nil {
		return nil, fmt.Errorf("failed to parse colour cache: %w", err)
	}
	return cache, nil
}

func cacheKey(id string, alg colour.Algorithm) string {
	return id + "/" + string(alg)
}

// Get returns the cached ranked colours for an image and algorithm.
func (c *ColourCache) Get(id string, alg colour.Algorithm) ([]colour.Pixel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	colours, ok := c.entries[cacheKey(id, alg)]
	return colours, ok
}

// Put stores the ranked colours for an image and algorithm.
func (c *ColourCache) Put(id string, alg colour.Algorithm, colours []colour.Pixel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(id, alg)] = colours
	c.dirty = true
}

// Drop removes every cached entry for an image identifier.
func (c *ColourCache) Drop(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, alg := range colour.ValidAlgorithms() {
		key := cacheKey(id, alg)
		if _, ok := c.entries[key]; ok {
			delete(c.entries, key)
			c.dirty = true
		}
	}
}

// Save writes the cache back to disk if anything changed.
func (c *ColourCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode colour cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil { // #nosec G306 - Cache is not sensitive
		return fmt.Errorf("failed to write colour cache: %w", err)
	}
	c.dirty = false
	return nil
}
