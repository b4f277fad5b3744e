package selection

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/wallshift/wallshift/internal/random"
)

func TestParsePolicy(t *testing.T) {
	for _, s := range []string{"pure", "weighted", "leastused"} {
		if _, err := ParsePolicy(s); err != nil {
			t.Errorf("ParsePolicy(%q) error = %v", s, err)
		}
	}
	if _, err := ParsePolicy("roundrobin"); err == nil {
		t.Error("ParsePolicy accepted an unknown policy")
	}
}

func TestNextEmptyList(t *testing.T) {
	picker := NewPicker(PolicyPure, NewHistory(5), random.NewSeeded(1))
	if _, err := picker.Next(nil); !errors.Is(err, ErrNoImages) {
		t.Errorf("Next(nil) error = %v, want ErrNoImages", err)
	}
}

func TestNextRecordsPick(t *testing.T) {
	history := NewHistory(3)
	picker := NewPicker(PolicyPure, history, random.NewSeeded(2))

	ids := []string{"a", "b", "c"}
	picked, err := picker.Next(ids)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}

	if history.LastShown() != picked {
		t.Errorf("LastShown() = %q, want %q", history.LastShown(), picked)
	}
	// Counts normalise against the minimum, so a single pick among
	// three images leaves the picked count at 1 and the others at 0.
	if history.Count(picked) != 1 {
		t.Errorf("Count(%q) = %d, want 1", picked, history.Count(picked))
	}
}

func TestLeastUsedCoversAllBeforeRepeating(t *testing.T) {
	// Under LeastUsed no identifier may be picked twice before every
	// identifier has been picked once.
	ids := []string{"a", "b", "c", "d", "e"}
	history := NewHistory(3)
	picker := NewPicker(PolicyLeastUsed, history, random.NewSeeded(3))

	for round := 0; round < 4; round++ {
		seen := make(map[string]bool)
		for range ids {
			picked, err := picker.Next(ids)
			if err != nil {
				t.Fatalf("Next() error = %v", err)
			}
			if seen[picked] {
				t.Fatalf("Round %d: %q picked twice before full coverage", round, picked)
			}
			seen[picked] = true
		}
	}
}

func TestWeightedNeverRepeatsLastShown(t *testing.T) {
	ids := []string{"a", "b", "c"}
	history := NewHistory(5)
	picker := NewPicker(PolicyWeighted, history, random.NewSeeded(4))

	last := ""
	for i := 0; i < 100; i++ {
		picked, err := picker.Next(ids)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if picked == last {
			t.Fatalf("Pick %d repeated the most recently shown %q", i, picked)
		}
		last = picked
	}
}

func TestWeightedSingleImageAlwaysPicked(t *testing.T) {
	history := NewHistory(5)
	picker := NewPicker(PolicyWeighted, history, random.NewSeeded(5))

	for i := 0; i < 3; i++ {
		picked, err := picker.Next([]string{"only"})
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if picked != "only" {
			t.Errorf("Next() = %q, want the only image", picked)
		}
	}
}

func TestWeightedPrefersRarelyShown(t *testing.T) {
	// With "a" far ahead in count, "b" and "c" must dominate the next
	// picks.
	history := NewHistory(1)
	history.counts["a"] = 50

	picker := NewPicker(PolicyWeighted, history, random.NewSeeded(6))
	ids := []string{"a", "b", "c"}

	aPicks := 0
	for i := 0; i < 200; i++ {
		picked, err := picker.Next(ids)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if picked == "a" {
			aPicks++
		}
	}
	if aPicks > 40 {
		t.Errorf("Heavily shown image picked %d/200 times, expected a small share", aPicks)
	}
}

func TestHistoryRingBound(t *testing.T) {
	history := NewHistory(3)
	picker := NewPicker(PolicyPure, history, random.NewSeeded(7))

	for i := 0; i < 10; i++ {
		if _, err := picker.Next([]string{"a", "b", "c", "d"}); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}

	if got := len(history.Recent()); got != 3 {
		t.Errorf("Ring holds %d entries, want 3", got)
	}
}

func TestHistoryPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	history := NewHistory(4)
	picker := NewPicker(PolicyLeastUsed, history, random.NewSeeded(8))
	ids := []string{"x", "y"}
	for i := 0; i < 3; i++ {
		if _, err := picker.Next(ids); err != nil {
			t.Fatalf("Next() error = %v", err)
		}
	}
	if err := history.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reloaded, err := LoadHistory(path, 4)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if reloaded.LastShown() != history.LastShown() {
		t.Errorf("LastShown() = %q, want %q", reloaded.LastShown(), history.LastShown())
	}
	if got, want := reloaded.Count("x"), history.Count("x"); got != want {
		t.Errorf("Count(x) = %d, want %d", got, want)
	}
}

func TestLoadHistoryMissingFile(t *testing.T) {
	h, err := LoadHistory(filepath.Join(t.TempDir(), "none.json"), 5)
	if err != nil {
		t.Fatalf("LoadHistory() error = %v", err)
	}
	if h.LastShown() != "" {
		t.Errorf("Fresh history has LastShown %q", h.LastShown())
	}
}

func TestHistoryForget(t *testing.T) {
	history := NewHistory(2)
	history.counts["gone"] = 7
	history.Forget("gone")
	if history.Count("gone") != 0 {
		t.Error("Forget did not clear the count")
	}
}
