package clustering

import "math/rand"

// ElbowPoint is one (k, inertia) sample of the elbow curve.
type ElbowPoint struct {
	K       int     `json:"k"`
	Inertia float64 `json:"inertia"`
}

// ComputeElbowCurve fits k-means for k = 1..min(maxK, n) and reports the
// within-cluster sum of squares at each k. When the sample exceeds sampleRows,
// inertia is computed on a fixed-seed subsample instead of the full set. The
// curve is descriptive output for the caller; it does not drive the cluster
// count used for the actual partition.
func ComputeElbowCurve(rows [][]float64, maxK, sampleRows int, seed int64) []ElbowPoint {
	if len(rows) < 2 {
		return nil
	}

	sample := rows
	if sampleRows > 0 && len(rows) > sampleRows {
		rng := rand.New(rand.NewSource(seed))
		perm := rng.Perm(len(rows))
		sample = make([][]float64, sampleRows)
		for i := 0; i < sampleRows; i++ {
			sample[i] = rows[perm[i]]
		}
	}

	if maxK > len(sample) {
		maxK = len(sample)
	}
	curve := make([]ElbowPoint, 0, maxK)
	for k := 1; k <= maxK; k++ {
		rng := rand.New(rand.NewSource(seed))
		fit := kmeansFit(sample, k, rng)
		curve = append(curve, ElbowPoint{K: k, Inertia: fit.inertia})
	}
	return curve
}
