package imagecache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateFilename(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantExt string
	}{
		{"png extension", "https://example.com/wall.png", ".png"},
		{"jpg extension", "https://example.com/wall.jpg", ".jpg"},
		{"query string stripped", "https://example.com/wall.png?size=large", ".png"},
		{"no extension defaults to jpg", "https://example.com/wall", ".jpg"},
		{"overlong extension defaults to jpg", "https://example.com/page.manifest", ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := generateFilename(tt.url)
			if !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("generateFilename(%q) = %q, want suffix %q", tt.url, got, tt.wantExt)
			}
			// 32 hex chars plus extension.
			if len(got) != 32+len(tt.wantExt) {
				t.Errorf("generateFilename(%q) = %q, unexpected length", tt.url, got)
			}
		})
	}

	// Deterministic, and distinct per URL.
	a := generateFilename("https://example.com/a.png")
	if a != generateFilename("https://example.com/a.png") {
		t.Error("filename not deterministic")
	}
	if a == generateFilename("https://example.com/b.png") {
		t.Error("distinct URLs produced the same filename")
	}
}

func TestDownloadAndCache(t *testing.T) {
	payload := []byte("fake image bytes")
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	dir := t.TempDir()
	url := srv.URL + "/wall.png"

	path, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("DownloadAndCache failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("cached outside the cache dir: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read cached file: %v", err)
	}
	if string(data) != string(payload) {
		t.Errorf("cached content mismatch: %q", data)
	}

	// A second call reuses the cached file without refetching.
	again, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir})
	if err != nil {
		t.Fatalf("second DownloadAndCache failed: %v", err)
	}
	if again != path {
		t.Errorf("expected the same cached path, got %s", again)
	}
	if hits != 1 {
		t.Errorf("expected 1 fetch, server saw %d", hits)
	}

	// AllowOverwrite forces a refetch.
	if _, err := DownloadAndCache(context.Background(), url, CacheOptions{CacheDir: dir, AllowOverwrite: true}); err != nil {
		t.Fatalf("overwriting DownloadAndCache failed: %v", err)
	}
	if hits != 2 {
		t.Errorf("expected 2 fetches after overwrite, server saw %d", hits)
	}
}

func TestDownloadAndCacheHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := DownloadAndCache(context.Background(), srv.URL+"/gone.png", CacheOptions{CacheDir: t.TempDir()}); err == nil {
		t.Error("expected error for 404 response")
	}
}

func TestDownloadAndCacheRejectsNonHTTP(t *testing.T) {
	if _, err := DownloadAndCache(context.Background(), "ftp://example.com/a.png", CacheOptions{}); err == nil {
		t.Error("expected error for non-http URL")
	}
	if _, err := DownloadAndCache(context.Background(), "/local/path.png", CacheOptions{}); err == nil {
		t.Error("expected error for local path")
	}
}
