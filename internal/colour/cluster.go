package colour

import (
	"errors"
	"sort"
)

// ErrEmptyResult is returned by Result.Select when clustering produced
// no clusters. Callers are expected to substitute a default colour.
var ErrEmptyResult = errors.New("clustering produced no clusters")

// Cluster is one group of samples: its centroid colour and how many
// samples belong to it.
type Cluster struct {
	Centroid Pixel
	Count    int
}

// Result is the output of one clustering run, ordered by descending
// membership count. It is immutable once returned.
type Result struct {
	Clusters []Cluster
}

// Select returns the centroid of the cluster at the given rank.
// Rank 1 is the most populous cluster. A rank beyond the number of
// surviving clusters falls back to the last available cluster, so
// rank 2 on a single-cluster result returns the rank-1 colour.
func (r *Result) Select(rank int) (Pixel, error) {
	return SelectRank(r.Colours(), rank)
}

// Colours returns the centroids in rank order.
func (r *Result) Colours() []Pixel {
	colours := make([]Pixel, len(r.Clusters))
	for i, c := range r.Clusters {
		colours[i] = c.Centroid
	}
	return colours
}

// SelectRank picks the colour at the given rank from an already ranked
// list, with the same clamping as Result.Select. It exists so callers
// holding only the ranked colours (the on-disk colour cache) share one
// rank semantics.
func SelectRank(colours []Pixel, rank int) (Pixel, error) {
	if len(colours) == 0 {
		return Pixel{}, ErrEmptyResult
	}
	if rank < 1 {
		rank = 1
	}
	if rank > len(colours) {
		rank = len(colours)
	}
	return colours[rank-1], nil
}

// sortClusters orders clusters by descending count. The sort is stable
// so clusters with equal counts keep their discovery order.
func sortClusters(clusters []Cluster) []Cluster {
	sort.SliceStable(clusters, func(i, j int) bool {
		return clusters[i].Count > clusters[j].Count
	})
	return clusters
}
