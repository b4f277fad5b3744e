// Package selection decides which image is shown next and tracks how
// often each image has been shown.
package selection

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// History tracks per-image pick counts and the most recently shown
// identifiers. It is the one piece of state shared across pipeline
// invocations; all mutation happens through a single mutex so at most
// one pick is in flight at a time.
type History struct {
	mu       sync.Mutex
	counts   map[string]int
	recent   []string
	ringSize int
}

// historyFile is the on-disk representation.
type historyFile struct {
	Counts map[string]int `json:"counts"`
	Recent []string       `json:"recent"`
}

// NewHistory creates an empty history whose recency ring holds at most
// ringSize identifiers.
func NewHistory(ringSize int) *History {
	if ringSize < 1 {
		ringSize = 1
	}
	return &History{
		counts:   make(map[string]int),
		ringSize: ringSize,
	}
}

// LoadHistory reads a history from path. A missing file yields an
// empty history.
func LoadHistory(path string, ringSize int) (*History, error) {
	h := NewHistory(ringSize)

	data, err := os.ReadFile(path) // #nosec G304 - History path under the app's own data dir
	if err != nil {
		if os.IsNotExist(err) {
			return h, nil
		}
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse history file: %w", err)
	}
	if file.Counts != nil {
		h.counts = file.Counts
	}
	// Trim a ring recorded under a larger configured size.
	if len(file.Recent) > h.ringSize {
		file.Recent = file.Recent[len(file.Recent)-h.ringSize:]
	}
	h.recent = file.Recent
	return h, nil
}

// Save writes the history to path.
func (h *History) Save(path string) error {
	h.mu.Lock()
	file := historyFile{Counts: h.counts, Recent: h.recent}
	data, err := json.MarshalIndent(file, "", "  ")
	h.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { // #nosec G306 - History is not sensitive
		return fmt.Errorf("failed to write history file: %w", err)
	}
	return nil
}

// Count returns the pick count for an identifier.
func (h *History) Count(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.counts[id]
}

// Recent returns a snapshot of the recency ring, oldest first.
func (h *History) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.recent))
	copy(out, h.recent)
	return out
}

// LastShown returns the most recently recorded identifier, or "".
func (h *History) LastShown() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.recent) == 0 {
		return ""
	}
	return h.recent[len(h.recent)-1]
}

// record registers a pick: increments the identifier's count, pushes
// it onto the recency ring (evicting the oldest entry on overflow) and
// normalises the counts so the minimum across all tracked identifiers
// stays zero and weights do not grow without bound.
//
// Callers must hold h.mu.
func (h *History) record(id string, all []string) {
	h.counts[id]++

	h.recent = append(h.recent, id)
	if len(h.recent) > h.ringSize {
		h.recent = h.recent[len(h.recent)-h.ringSize:]
	}

	if len(all) == 0 {
		return
	}
	minCount := h.counts[all[0]]
	for _, other := range all[1:] {
		if c := h.counts[other]; c < minCount {
			minCount = c
		}
	}
	if minCount > 0 {
		for _, other := range all {
			h.counts[other] -= minCount
		}
	}
}

// Forget drops an identifier from the counts, for images removed from
// the library.
func (h *History) Forget(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.counts, id)
}
