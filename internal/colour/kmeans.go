package colour

import (
	"errors"
	"sort"

	"github.com/wallshift/wallshift/internal/random"
)

// KMeans partitions a sample set into at most K clusters by iterative
// centroid refinement.
type KMeans struct {
	// K is the number of clusters to seed. Reduced to the number of
	// distinct sample colours when fewer exist.
	K int

	// MaxIterations bounds the refinement loop. Exhausting the budget
	// is not an error: the best-effort result is returned.
	MaxIterations int

	// DistanceThreshold stops the loop early once the maximum centroid
	// movement across one iteration drops to or below it.
	DistanceThreshold float64

	// PruningDistance folds clusters whose centroids lie within this
	// distance of a larger cluster into that cluster, removing
	// near-duplicate colours from a single visual region. <= 0
	// disables pruning.
	PruningDistance float64

	// Rand is the randomness source for centroid seeding. Defaults to
	// a time-seeded source when nil.
	Rand random.Source
}

// Cluster runs k-means over the samples and returns clusters sorted by
// descending membership count.
func (k *KMeans) Cluster(samples []Pixel) (*Result, error) {
	if len(samples) == 0 {
		return nil, ErrEmptyImage
	}
	if k.K < 1 {
		return nil, errors.New("cluster count must be at least 1")
	}

	rnd := k.Rand
	if rnd == nil {
		rnd = random.New()
	}

	points := toPoints(samples)
	centroids := k.seedCentroids(points, rnd)

	assignments := make([]int, len(points))
	counts := make([]int, len(centroids))

	for iter := 0; iter < k.MaxIterations; iter++ {
		assign(points, centroids, assignments, counts)
		moved := k.refine(points, centroids, assignments, counts, rnd)
		if moved <= k.DistanceThreshold {
			break
		}
	}
	// Final assignment against the last centroid positions, so counts
	// match the centroids actually returned.
	assign(points, centroids, assignments, counts)

	clusters := make([]Cluster, len(centroids))
	for i, c := range centroids {
		clusters[i] = Cluster{Centroid: c.pixel(), Count: counts[i]}
	}
	if k.PruningDistance > 0 {
		clusters = pruneClusters(clusters, centroids, k.PruningDistance)
	}

	return &Result{Clusters: sortClusters(clusters)}, nil
}

// seedCentroids draws up to K distinct sample colours uniformly at
// random as the initial centroids.
func (k *KMeans) seedCentroids(points []point, rnd random.Source) []point {
	distinct := make([]point, 0, len(points))
	seen := make(map[point]bool, len(points))
	for _, p := range points {
		if !seen[p] {
			seen[p] = true
			distinct = append(distinct, p)
		}
	}

	n := min(k.K, len(distinct))
	centroids := make([]point, n)
	for i, idx := range rnd.Perm(len(distinct))[:n] {
		centroids[i] = distinct[idx]
	}
	return centroids
}

// assign maps every point to its nearest centroid and tallies the
// per-centroid membership counts.
func assign(points, centroids []point, assignments []int, counts []int) {
	for i := range counts {
		counts[i] = 0
	}
	for i, p := range points {
		nearest := nearestPoint(p, centroids)
		assignments[i] = nearest
		counts[nearest]++
	}
}

// refine recomputes each centroid as the mean of its assigned points
// and returns the maximum centroid movement. A centroid that lost all
// of its points is re-seeded from a random sample instead of
// collapsing the cluster.
func (k *KMeans) refine(points, centroids []point, assignments []int, counts []int, rnd random.Source) float64 {
	sums := make([]point, len(centroids))
	for i, p := range points {
		c := assignments[i]
		sums[c].R += p.R
		sums[c].G += p.G
		sums[c].B += p.B
	}

	maxMove := 0.0
	for i := range centroids {
		var next point
		if counts[i] > 0 {
			n := float64(counts[i])
			next = point{R: sums[i].R / n, G: sums[i].G / n, B: sums[i].B / n}
		} else {
			next = points[rnd.Intn(len(points))]
		}
		if move := centroids[i].distance(next); move > maxMove {
			maxMove = move
		}
		centroids[i] = next
	}
	return maxMove
}

func nearestPoint(p point, candidates []point) int {
	nearest := 0
	minDist := p.distance(candidates[0])
	for i := 1; i < len(candidates); i++ {
		if d := p.distance(candidates[i]); d < minDist {
			minDist = d
			nearest = i
		}
	}
	return nearest
}

// pruneClusters folds each cluster lying within pruningDistance of a
// larger cluster's centroid into that cluster. Clusters are visited
// largest-first so membership always flows toward the dominant colour
// of a region.
func pruneClusters(clusters []Cluster, centroids []point, pruningDistance float64) []Cluster {
	order := make([]int, len(clusters))
	for i := range order {
		order[i] = i
	}
	// Largest first; stable on discovery order for equal counts.
	sort.SliceStable(order, func(a, b int) bool {
		return clusters[order[a]].Count > clusters[order[b]].Count
	})

	absorbed := make([]bool, len(clusters))
	kept := make([]Cluster, 0, len(clusters))
	for _, i := range order {
		if absorbed[i] {
			continue
		}
		merged := clusters[i]
		for _, j := range order {
			if i == j || absorbed[j] {
				continue
			}
			if centroids[i].distance(centroids[j]) <= pruningDistance {
				merged.Count += clusters[j].Count
				absorbed[j] = true
			}
		}
		kept = append(kept, merged)
	}
	return kept
}
