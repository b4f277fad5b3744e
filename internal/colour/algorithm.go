package colour

// Clusterer is the interface shared by the clustering algorithms.
type Clusterer interface {
	// Cluster partitions a sample set into clusters ordered by
	// descending membership count.
	Cluster(samples []Pixel) (*Result, error)
}

// Algorithm identifies a clustering algorithm.
type Algorithm string

const (
	// AlgorithmKMeans uses iterative centroid refinement.
	AlgorithmKMeans Algorithm = "kmeans"

	// AlgorithmMeanShift shifts seeds toward local density peaks.
	AlgorithmMeanShift Algorithm = "meanshift"
)

// ValidAlgorithms returns the recognised algorithm names.
func ValidAlgorithms() []Algorithm {
	return []Algorithm{AlgorithmKMeans, AlgorithmMeanShift}
}

// IsValidAlgorithm checks if the given algorithm name is recognised.
func IsValidAlgorithm(alg Algorithm) bool {
	for _, valid := range ValidAlgorithms() {
		if alg == valid {
			return true
		}
	}
	return false
}
