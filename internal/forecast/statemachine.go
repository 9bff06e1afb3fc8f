package forecast

// runState tracks where a recursive forecast run is in its lifecycle.
type runState int

const (
	// stateSeeded: the window holds only historical values, nothing predicted.
	stateSeeded runState = iota
	// statePredicting: at least one prediction has been fed back into the window.
	statePredicting
	// stateExhausted: the horizon is spent, further Next calls return nothing.
	stateExhausted
)

// forecastRun walks the recursive horizon: each prediction is appended to the
// rolling window (oldest value dropped) and becomes input for the next one,
// so late predictions depend on earlier predictions rather than ground truth.
type forecastRun struct {
	predict   func(window []float64) float64
	window    []float64
	remaining int
	state     runState
}

func newForecastRun(seed []float64, horizon int, predict func([]float64) float64) *forecastRun {
	return &forecastRun{
		predict:   predict,
		window:    append([]float64(nil), seed...),
		remaining: horizon,
		state:     stateSeeded,
	}
}

// Next produces one prediction and advances the run. The second return is
// false once the horizon is exhausted.
func (r *forecastRun) Next() (float64, bool) {
	if r.state == stateExhausted || r.remaining == 0 {
		r.state = stateExhausted
		return 0, false
	}

	value := r.predict(r.window)
	copy(r.window, r.window[1:])
	r.window[len(r.window)-1] = value

	r.remaining--
	if r.remaining == 0 {
		r.state = stateExhausted
	} else {
		r.state = statePredicting
	}
	return value, true
}

// All drains the run to completion.
func (r *forecastRun) All() []float64 {
	var out []float64
	for {
		v, ok := r.Next()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}
