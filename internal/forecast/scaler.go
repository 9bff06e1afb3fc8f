package forecast

// MinMaxScaler maps values into [0,1] using the range of the series it was
// fitted on. Fitting happens on history only; forecasts are inverse-mapped
// with the same bounds.
type MinMaxScaler struct {
	min   float64
	scale float64
}

func (s *MinMaxScaler) Fit(values []float64) {
	if len(values) == 0 {
		s.min, s.scale = 0, 1
		return
	}
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}
	s.min = minV
	s.scale = maxV - minV
	if s.scale == 0 {
		// Constant series: map everything to 0 instead of dividing by zero.
		s.scale = 1
	}
}

func (s *MinMaxScaler) Transform(values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = (v - s.min) / s.scale
	}
	return out
}

func (s *MinMaxScaler) Inverse(v float64) float64 {
	return v*s.scale + s.min
}
