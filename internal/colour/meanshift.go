package colour

import (
	"errors"

	"github.com/hashicorp/go-hclog"

	"github.com/wallshift/wallshift/internal/random"
)

// MeanShift clusters a sample set by shifting seed points toward local
// density peaks until they settle on a mode.
//
// Every seed repeatedly moves to the mean of all samples within Radius
// of its current position. Seeds whose final positions lie within
// Tolerance of each other are merged into a single mode. Membership of
// each mode is then recomputed by assigning every sample to its
// nearest mode, so counts reflect image-wide prevalence rather than
// how many seeds happened to converge there.
type MeanShift struct {
	// Radius is the neighbourhood distance used for the mean shift.
	Radius float64

	// Tolerance is both the convergence criterion for a single seed
	// (stop once a shift moves less than this) and the merge distance
	// for grouping converged seeds into one mode.
	Tolerance float64

	// MaxIterations bounds the shifting of a single seed. A seed that
	// exhausts the budget is used at its last position; this is logged
	// as a warning, not returned as an error.
	MaxIterations int

	// MaxSeeds caps how many samples are used as seeds, drawn
	// uniformly without replacement. 0 seeds from every sample.
	MaxSeeds int

	// Rand is the randomness source for seed downsampling. Defaults
	// to a time-seeded source when nil.
	Rand random.Source

	// Logger receives non-convergence warnings. Defaults to a null
	// logger.
	Logger hclog.Logger
}

// Cluster runs mean-shift over the samples and returns modes sorted by
// descending membership count.
func (m *MeanShift) Cluster(samples []Pixel) (*Result, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyImage
	}
	if m.Radius <= 0 {
		return nil, errors.New("radius must be positive")
	}

	logger := m.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	points := toPoints(samples)
	seeds := m.pickSeeds(points)

	unconverged := 0
	for i := range seeds {
		if !m.shift(&seeds[i], points) {
			unconverged++
		}
	}
	if unconverged > 0 {
		logger.Warn("seeds did not converge within iteration budget",
			"seeds", unconverged, "max_iterations", m.MaxIterations)
	}

	modes := mergeModes(seeds, m.Tolerance)
	counts := make([]int, len(modes))
	for _, p := range points {
		counts[nearestPoint(p, modes)]++
	}

	clusters := make([]Cluster, 0, len(modes))
	for i, mode := range modes {
		clusters = append(clusters, Cluster{Centroid: mode.pixel(), Count: counts[i]})
	}
	return &Result{Clusters: sortClusters(clusters)}, nil
}

// pickSeeds returns the seed points to shift: all samples, or a random
// subset when MaxSeeds caps them.
func (m *MeanShift) pickSeeds(points []point) []point {
	if m.MaxSeeds <= 0 || len(points) <= m.MaxSeeds {
		seeds := make([]point, len(points))
		copy(seeds, points)
		return seeds
	}
	rnd := m.Rand
	if rnd == nil {
		rnd = random.New()
	}
	seeds := make([]point, m.MaxSeeds)
	for i, idx := range rnd.Perm(len(points))[:m.MaxSeeds] {
		seeds[i] = points[idx]
	}
	return seeds
}

// shift moves a single seed to its local mode. Reports whether the
// seed converged within the iteration budget.
func (m *MeanShift) shift(seed *point, points []point) bool {
	for iter := 0; iter < m.MaxIterations; iter++ {
		var sum point
		n := 0
		for _, p := range points {
			if seed.distance(p) < m.Radius {
				sum.R += p.R
				sum.G += p.G
				sum.B += p.B
				n++
			}
		}
		// The seed started on a sample, so its neighbourhood is never
		// empty while it keeps moving toward higher density.
		if n == 0 {
			return true
		}
		next := point{R: sum.R / float64(n), G: sum.G / float64(n), B: sum.B / float64(n)}
		moved := seed.distance(next)
		*seed = next
		if moved <= m.Tolerance {
			return true
		}
	}
	return false
}

// mergeModes groups converged seeds whose positions lie within
// tolerance of an already-discovered mode. The first seed to reach a
// mode fixes its position.
func mergeModes(seeds []point, tolerance float64) []point {
	modes := make([]point, 0)
	for _, s := range seeds {
		found := false
		for _, mode := range modes {
			if s.distance(mode) <= tolerance {
				found = true
				break
			}
		}
		if !found {
			modes = append(modes, s)
		}
	}
	return modes
}
