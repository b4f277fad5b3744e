// Package library manages the user-curated list of wallpaper images.
//
// The library holds individually added files, remote URLs, and watched
// directories. Directory contents are not stored: they are re-scanned
// on load, so files added or removed on disk are picked up on the next
// run.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/wallshift/wallshift/internal/imageio"
)

// Entry is one selectable image.
type Entry struct {
	// ID is a stable 64-bit identifier derived from the cleaned path,
	// used as the usage-history key.
	ID string `json:"id"`

	// Path is the image file path or http(s) URL.
	Path string `json:"path"`

	// FromDir marks entries discovered by a directory scan rather
	// than added individually. They are rebuilt on every load and not
	// persisted.
	FromDir bool `json:"-"`
}

// libraryFile is the on-disk representation.
type libraryFile struct {
	Files       []string `json:"files"`
	Directories []string `json:"directories"`
}

// Library is the managed image list.
type Library struct {
	path        string
	files       []string
	directories []string
	entries     []Entry
}

// ID returns the stable identifier for an image path or URL.
func ID(path string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(normalisePath(path)))
}

func normalisePath(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return filepath.ToSlash(filepath.Clean(path))
}

// Load reads the library stored at path and re-scans its directories.
// A missing file yields an empty library.
func Load(path string) (*Library, error) {
	lib := &Library{path: path}

	data, err := os.ReadFile(path) // #nosec G304 - Library path under the app's own data dir
	if err != nil {
		if os.IsNotExist(err) {
			return lib, nil
		}
		return nil, fmt.Errorf("failed to read library file: %w", err)
	}

	var file libraryFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse library file: %w", err)
	}
	lib.files = file.Files
	lib.directories = file.Directories
	lib.rebuild()
	return lib, nil
}

// Save writes the library back to disk. Directory-scanned entries are
// not persisted; the directories themselves are.
func (l *Library) Save() error {
	file := libraryFile{Files: l.files, Directories: l.directories}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode library: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create library directory: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil { // #nosec G306 - Library list is not sensitive
		return fmt.Errorf("failed to write library file: %w", err)
	}
	return nil
}

// AddFile adds a single image file or http(s) URL.
func (l *Library) AddFile(path string) error {
	if !imageio.IsURL(path) {
		if err := imageio.ValidateImagePath(path); err != nil {
			return err
		}
		path = normalisePath(path)
	}
	for _, existing := range l.files {
		if existing == path {
			return nil
		}
	}
	l.files = append(l.files, path)
	l.rebuild()
	return nil
}

// AddDirectory adds a directory whose images are rescanned on every
// load.
func (l *Library) AddDirectory(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", dir)
	}
	dir = normalisePath(dir)
	for _, existing := range l.directories {
		if existing == dir {
			return nil
		}
	}
	l.directories = append(l.directories, dir)
	l.rebuild()
	return nil
}

// Remove drops a file, URL or directory from the library. Reports
// whether anything was removed.
func (l *Library) Remove(path string) bool {
	target := path
	if !imageio.IsURL(path) {
		target = normalisePath(path)
	}

	removed := false
	l.files = removeString(l.files, target, &removed)
	l.directories = removeString(l.directories, target, &removed)
	if removed {
		l.rebuild()
	}
	return removed
}

func removeString(list []string, target string, removed *bool) []string {
	out := list[:0]
	for _, s := range list {
		if s == target {
			*removed = true
			continue
		}
		out = append(out, s)
	}
	return out
}

// Entries returns every selectable image, individually added files
// first, then directory-scanned files.
func (l *Library) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// IDs returns the identifiers of every selectable image.
func (l *Library) IDs() []string {
	ids := make([]string, len(l.entries))
	for i, e := range l.entries {
		ids[i] = e.ID
	}
	return ids
}

// PathFor resolves an identifier back to its image path.
func (l *Library) PathFor(id string) (string, bool) {
	for _, e := range l.entries {
		if e.ID == id {
			return e.Path, true
		}
	}
	return "", false
}

// Len returns the number of selectable images.
func (l *Library) Len() int {
	return len(l.entries)
}

// Rescan rebuilds the directory-scanned entries.
func (l *Library) Rescan() {
	l.rebuild()
}

// rebuild flattens files and scanned directories into the entry list,
// deduplicating by identifier.
func (l *Library) rebuild() {
	seen := make(map[string]bool)
	entries := make([]Entry, 0, len(l.files))

	for _, f := range l.files {
		id := ID(f)
		if !seen[id] {
			seen[id] = true
			entries = append(entries, Entry{ID: id, Path: f})
		}
	}

	for _, dir := range l.directories {
		found, err := imageio.ScanDirectoryForImages(dir)
		if err != nil {
			// Unreadable or empty directories contribute nothing;
			// they stay in the library for later runs.
			continue
		}
		sort.Strings(found)
		for _, f := range found {
			f = normalisePath(f)
			id := ID(f)
			if !seen[id] {
				seen[id] = true
				entries = append(entries, Entry{ID: id, Path: f, FromDir: true})
			}
		}
	}

	l.entries = entries
}
