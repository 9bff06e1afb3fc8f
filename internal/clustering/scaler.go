package clustering

import "gonum.org/v1/gonum/stat"

// StandardScaler centers features to zero mean and unit variance. Fit on the
// working sample, then used to score every SKU, so out-of-sample rows land in
// the same feature space as the training rows.
type StandardScaler struct {
	means []float64
	stds  []float64
}

// Fit computes per-feature mean and population standard deviation. A constant
// feature gets std 1 so transforming it yields zeros instead of dividing by
// zero.
func (s *StandardScaler) Fit(rows [][]float64) {
	if len(rows) == 0 {
		s.means, s.stds = nil, nil
		return
	}
	dims := len(rows[0])
	s.means = make([]float64, dims)
	s.stds = make([]float64, dims)

	col := make([]float64, len(rows))
	for d := 0; d < dims; d++ {
		for i, row := range rows {
			col[i] = row[d]
		}
		s.means[d] = stat.Mean(col, nil)
		s.stds[d] = stat.PopStdDev(col, nil)
		if s.stds[d] == 0 {
			s.stds[d] = 1
		}
	}
}

// Transform returns scaled copies of the given rows.
func (s *StandardScaler) Transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for d, v := range row {
			scaled[d] = (v - s.means[d]) / s.stds[d]
		}
		out[i] = scaled
	}
	return out
}
