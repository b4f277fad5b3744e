package selection

import (
	"errors"
	"fmt"

	"github.com/wallshift/wallshift/internal/random"
)

// ErrNoImages is returned when a pick is requested from an empty list.
var ErrNoImages = errors.New("no images to select from")

// Policy is an image-selection strategy.
type Policy string

const (
	// PolicyPure picks uniformly over all identifiers.
	PolicyPure Policy = "pure"

	// PolicyWeighted picks with probability inversely proportional to
	// each identifier's count, and never repeats the most recently
	// shown identifier when more than one image is available.
	PolicyWeighted Policy = "weighted"

	// PolicyLeastUsed picks uniformly among the identifiers sharing
	// the current minimum count.
	PolicyLeastUsed Policy = "leastused"
)

// ParsePolicy maps a config string to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyPure, PolicyWeighted, PolicyLeastUsed:
		return Policy(s), nil
	default:
		return "", fmt.Errorf("unknown selection policy %q", s)
	}
}

// Picker chooses the next image and owns all History mutation. Only
// Next writes to the history; everything else reads snapshots.
type Picker struct {
	policy  Policy
	history *History
	rand    random.Source
}

// NewPicker wires a policy to its history. A nil rand falls back to a
// time-seeded source.
func NewPicker(policy Policy, history *History, rand random.Source) *Picker {
	if rand == nil {
		rand = random.New()
	}
	return &Picker{policy: policy, history: history, rand: rand}
}

// Next picks the next identifier from ids and records the pick in the
// history atomically with respect to concurrent calls.
func (p *Picker) Next(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", ErrNoImages
	}

	h := p.history
	h.mu.Lock()
	defer h.mu.Unlock()

	var picked string
	switch p.policy {
	case PolicyPure:
		picked = ids[p.rand.Intn(len(ids))]
	case PolicyWeighted:
		picked = p.pickWeighted(ids)
	case PolicyLeastUsed:
		picked = p.pickLeastUsed(ids)
	default:
		return "", fmt.Errorf("unknown selection policy %q", p.policy)
	}

	h.record(picked, ids)
	return picked, nil
}

// pickWeighted draws an identifier with weight (max-count - count + 1),
// so rarely shown images are preferred. The most recently shown
// identifier is excluded whenever an alternative exists.
//
// Callers must hold the history mutex.
func (p *Picker) pickWeighted(ids []string) string {
	h := p.history

	candidates := ids
	if len(ids) > 1 {
		last := ""
		if len(h.recent) > 0 {
			last = h.recent[len(h.recent)-1]
		}
		if last != "" {
			filtered := make([]string, 0, len(ids))
			for _, id := range ids {
				if id != last {
					filtered = append(filtered, id)
				}
			}
			if len(filtered) > 0 {
				candidates = filtered
			}
		}
	}

	maxCount := 0
	for _, id := range candidates {
		if c := h.counts[id]; c > maxCount {
			maxCount = c
		}
	}

	total := 0
	weights := make([]int, len(candidates))
	for i, id := range candidates {
		weights[i] = maxCount - h.counts[id] + 1
		total += weights[i]
	}

	target := int(p.rand.Float64() * float64(total))
	for i, w := range weights {
		if target < w {
			return candidates[i]
		}
		target -= w
	}
	return candidates[len(candidates)-1]
}

// pickLeastUsed draws uniformly among the identifiers with the lowest
// count.
//
// Callers must hold the history mutex.
func (p *Picker) pickLeastUsed(ids []string) string {
	h := p.history

	minCount := h.counts[ids[0]]
	for _, id := range ids[1:] {
		if c := h.counts[id]; c < minCount {
			minCount = c
		}
	}

	least := make([]string, 0, len(ids))
	for _, id := range ids {
		if h.counts[id] == minCount {
			least = append(least, id)
		}
	}
	return least[p.rand.Intn(len(least))]
}
