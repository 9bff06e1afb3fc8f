package clustering

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

const kmeansMaxIterations = 300

// kmeansResult holds fitted centroids plus the assignment of the training
// rows and their total within-cluster sum of squared distances.
type kmeansResult struct {
	centroids   [][]float64
	assignments []int
	inertia     float64
}

// kmeansFit runs seeded k-means++ initialization followed by Lloyd
// iterations. The rand source is injected so repeated runs on identical input
// produce identical assignments.
func kmeansFit(rows [][]float64, k int, rng *rand.Rand) kmeansResult {
	if len(rows) == 0 || k <= 0 {
		return kmeansResult{}
	}
	if k > len(rows) {
		k = len(rows)
	}

	centroids := plusPlusInit(rows, k, rng)
	assignments := make([]int, len(rows))
	inertia := 0.0

	for iter := 0; iter < kmeansMaxIterations; iter++ {
		moved := false
		inertia = 0
		for i, row := range rows {
			cluster, dist := nearestCentroid(row, centroids)
			if iter == 0 || assignments[i] != cluster {
				moved = true
			}
			assignments[i] = cluster
			inertia += dist * dist
		}
		if !moved && iter > 0 {
			break
		}

		dims := len(rows[0])
		sums := make([][]float64, len(centroids))
		counts := make([]int, len(centroids))
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, row := range rows {
			floats.Add(sums[assignments[i]], row)
			counts[assignments[i]]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				// Empty cluster keeps its old centroid.
				continue
			}
			floats.Scale(1/float64(counts[c]), sums[c])
			centroids[c] = sums[c]
		}
	}

	return kmeansResult{centroids: centroids, assignments: assignments, inertia: inertia}
}

// plusPlusInit picks initial centroids with the k-means++ weighting: the
// first uniformly, each following one proportional to squared distance from
// the nearest already-chosen centroid.
func plusPlusInit(rows [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := append([]float64(nil), rows[rng.Intn(len(rows))]...)
	centroids = append(centroids, first)

	weights := make([]float64, len(rows))
	for len(centroids) < k {
		total := 0.0
		for i, row := range rows {
			_, dist := nearestCentroid(row, centroids)
			weights[i] = dist * dist
			total += weights[i]
		}
		if total == 0 {
			// All rows coincide with a centroid; duplicate one.
			centroids = append(centroids, append([]float64(nil), rows[0]...))
			continue
		}

		target := rng.Float64() * total
		cumulative := 0.0
		chosen := len(rows) - 1
		for i, w := range weights {
			cumulative += w
			if cumulative >= target {
				chosen = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), rows[chosen]...))
	}
	return centroids
}

func nearestCentroid(row []float64, centroids [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := floats.Distance(row, centroid, 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}
