package library

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writePNG writes a tiny valid PNG so image validation passes.
func writePNG(t *testing.T, path string) {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 30, G: 60, B: 90, A: 255})

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
}

func TestAddFileAndPersistence(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	writePNG(t, a)
	writePNG(t, b)

	libPath := filepath.Join(dir, "library.json")
	lib, err := Load(libPath)
	if err != nil {
		t.Fatalf("Load() of missing file failed: %v", err)
	}
	if lib.Len() != 0 {
		t.Fatalf("expected empty library, got %d entries", lib.Len())
	}

	if err := lib.AddFile(a); err != nil {
		t.Fatalf("AddFile(%s) failed: %v", a, err)
	}
	if err := lib.AddFile(b); err != nil {
		t.Fatalf("AddFile(%s) failed: %v", b, err)
	}
	// Adding the same file twice must not duplicate it.
	if err := lib.AddFile(a); err != nil {
		t.Fatalf("repeat AddFile failed: %v", err)
	}
	if lib.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", lib.Len())
	}

	if err := lib.Save(); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	reloaded, err := Load(libPath)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
	}

	// Identifiers must be stable across load cycles.
	if got, want := reloaded.IDs()[0], ID(a); got != want {
		t.Errorf("first entry ID = %s, want %s", got, want)
	}

	path, ok := reloaded.PathFor(ID(b))
	if !ok {
		t.Fatalf("PathFor(%s) found nothing", ID(b))
	}
	if path != normalisePath(b) {
		t.Errorf("PathFor returned %s, want %s", path, normalisePath(b))
	}
}

func TestAddFileValidation(t *testing.T) {
	dir := t.TempDir()
	lib, err := Load(filepath.Join(dir, "library.json"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if err := lib.AddFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error adding a missing file")
	}

	bogus := filepath.Join(dir, "not-an-image.png")
	if err := os.WriteFile(bogus, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := lib.AddFile(bogus); err == nil {
		t.Error("expected error adding an undecodable file")
	}

	// URLs are accepted as-is; fetching happens at cycle time.
	if err := lib.AddFile("https://example.com/nebula.png"); err != nil {
		t.Errorf("AddFile(url) failed: %v", err)
	}
	if lib.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", lib.Len())
	}
}

func TestDirectoryScanAndRescan(t *testing.T) {
	dir := t.TempDir()
	scanned := filepath.Join(dir, "walls")
	if err := os.Mkdir(scanned, 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(scanned, "one.png"))
	writePNG(t, filepath.Join(scanned, "two.png"))
	if err := os.WriteFile(filepath.Join(scanned, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	lib, err := Load(filepath.Join(dir, "library.json"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if err := lib.AddDirectory(scanned); err != nil {
		t.Fatalf("AddDirectory failed: %v", err)
	}

	if lib.Len() != 2 {
		t.Fatalf("expected 2 scanned images, got %d", lib.Len())
	}
	for _, e := range lib.Entries() {
		if !e.FromDir {
			t.Errorf("entry %s should be marked as directory-scanned", e.Path)
		}
	}

	// New images appear after a rescan without re-adding anything.
	writePNG(t, filepath.Join(scanned, "three.png"))
	lib.Rescan()
	if lib.Len() != 3 {
		t.Errorf("expected 3 images after rescan, got %d", lib.Len())
	}
}

func TestDirectoryEntriesNotPersisted(t *testing.T) {
	dir := t.TempDir()
	scanned := filepath.Join(dir, "walls")
	if err := os.Mkdir(scanned, 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(scanned, "one.png"))

	libPath := filepath.Join(dir, "library.json")
	lib, err := Load(libPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := lib.AddDirectory(scanned); err != nil {
		t.Fatal(err)
	}
	if err := lib.Save(); err != nil {
		t.Fatal(err)
	}

	// The scan result changes on disk, then the library is reloaded.
	writePNG(t, filepath.Join(scanned, "two.png"))
	reloaded, err := Load(libPath)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.Len() != 2 {
		t.Errorf("expected the reload to rescan the directory, got %d entries", reloaded.Len())
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	writePNG(t, a)
	scanned := filepath.Join(dir, "walls")
	if err := os.Mkdir(scanned, 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(scanned, "one.png"))

	lib, err := Load(filepath.Join(dir, "library.json"))
	if err != nil {
		t.Fatal(err)
	}
	if err := lib.AddFile(a); err != nil {
		t.Fatal(err)
	}
	if err := lib.AddDirectory(scanned); err != nil {
		t.Fatal(err)
	}
	if lib.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", lib.Len())
	}

	if !lib.Remove(a) {
		t.Error("Remove(file) reported nothing removed")
	}
	if !lib.Remove(scanned) {
		t.Error("Remove(directory) reported nothing removed")
	}
	if lib.Remove(a) {
		t.Error("second Remove should report nothing removed")
	}
	if lib.Len() != 0 {
		t.Errorf("expected empty library, got %d entries", lib.Len())
	}
}

func TestIDStability(t *testing.T) {
	// The identifier must not depend on path spelling.
	base := t.TempDir()
	p := filepath.Join(base, "img.png")
	messy := filepath.Join(base, ".", "img.png")
	if ID(p) != ID(messy) {
		t.Errorf("ID differs for equivalent paths: %s vs %s", ID(p), ID(messy))
	}

	if ID("https://example.com/a.png") == ID("https://example.com/b.png") {
		t.Error("distinct URLs must not collide")
	}
}
