package persistence

import (
	"math"
	"sort"

	"github.com/tadinve/p3-search/domain/document"
)

// SquaredDistance returns the squared Euclidean distance between two
// vectors. Mismatched or empty vectors return math.MaxFloat64 so they
// sort after every real neighbor.
func SquaredDistance(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return math.MaxFloat64
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// topNearest returns up to limit lines ordered by ascending squared
// distance to the query vector.
func topNearest(query []float64, lines []document.Line, limit int) []document.Neighbor {
	neighbors := make([]document.Neighbor, 0, len(lines))
	for _, line := range lines {
		neighbors = append(neighbors, document.NewNeighbor(line, SquaredDistance(query, line.Vector())))
	}

	sort.SliceStable(neighbors, func(i, j int) bool {
		return neighbors[i].Distance() < neighbors[j].Distance()
	})

	if limit > 0 && len(neighbors) > limit {
		neighbors = neighbors[:limit]
	}
	return neighbors
}
