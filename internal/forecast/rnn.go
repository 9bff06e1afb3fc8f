package forecast

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// recurrentNet is a single-layer Elman network over a scalar series: hidden
// state h_t = tanh(wxh*x_t + Whh·h_{t-1} + bh), output y = why·h_T + by. Small
// enough to train per request, which is the point of this forecaster.
type recurrentNet struct {
	hidden int

	wxh []float64   // input -> hidden
	whh [][]float64 // hidden -> hidden
	bh  []float64
	why []float64 // hidden -> output
	by  float64

	opt *adam
}

func newRecurrentNet(hidden int, rng *rand.Rand) *recurrentNet {
	n := &recurrentNet{
		hidden: hidden,
		wxh:    make([]float64, hidden),
		whh:    make([][]float64, hidden),
		bh:     make([]float64, hidden),
		why:    make([]float64, hidden),
	}
	scale := 1 / math.Sqrt(float64(hidden))
	for i := 0; i < hidden; i++ {
		n.wxh[i] = (rng.Float64()*2 - 1) * scale
		n.why[i] = (rng.Float64()*2 - 1) * scale
		n.whh[i] = make([]float64, hidden)
		for j := 0; j < hidden; j++ {
			n.whh[i][j] = (rng.Float64()*2 - 1) * scale
		}
	}
	n.opt = newAdam(hidden)
	return n
}

// forward runs the window through the net, returning the prediction and every
// hidden state (index 0 is the zero initial state) for backprop.
func (n *recurrentNet) forward(window []float64) (float64, [][]float64) {
	states := make([][]float64, len(window)+1)
	states[0] = make([]float64, n.hidden)
	for t, x := range window {
		h := make([]float64, n.hidden)
		for i := 0; i < n.hidden; i++ {
			sum := n.wxh[i]*x + n.bh[i] + floats.Dot(n.whh[i], states[t])
			h[i] = math.Tanh(sum)
		}
		states[t+1] = h
	}
	return floats.Dot(n.why, states[len(window)]) + n.by, states
}

// Predict returns the next value for a window.
func (n *recurrentNet) Predict(window []float64) float64 {
	y, _ := n.forward(window)
	return y
}

// Train fits the net with full backprop-through-time, one sample at a time in
// dataset order, for the given number of epochs. Sample order is fixed so the
// result is reproducible.
func (n *recurrentNet) Train(inputs [][]float64, targets []float64, epochs int) {
	for epoch := 0; epoch < epochs; epoch++ {
		for s, window := range inputs {
			n.step(window, targets[s])
		}
	}
}

func (n *recurrentNet) step(window []float64, target float64) {
	y, states := n.forward(window)
	dy := 2 * (y - target)

	g := newGradients(n.hidden)
	last := states[len(states)-1]
	for i := 0; i < n.hidden; i++ {
		g.why[i] = dy * last[i]
	}
	g.by = dy

	dh := make([]float64, n.hidden)
	for i := 0; i < n.hidden; i++ {
		dh[i] = dy * n.why[i]
	}
	for t := len(window); t >= 1; t-- {
		h, prev := states[t], states[t-1]
		draw := make([]float64, n.hidden)
		for i := 0; i < n.hidden; i++ {
			draw[i] = dh[i] * (1 - h[i]*h[i])
		}
		for i := 0; i < n.hidden; i++ {
			g.wxh[i] += draw[i] * window[t-1]
			g.bh[i] += draw[i]
			for j := 0; j < n.hidden; j++ {
				g.whh[i][j] += draw[i] * prev[j]
			}
		}
		next := make([]float64, n.hidden)
		for j := 0; j < n.hidden; j++ {
			for i := 0; i < n.hidden; i++ {
				next[j] += n.whh[i][j] * draw[i]
			}
		}
		dh = next
	}

	n.opt.apply(n, g)
}

type gradients struct {
	wxh []float64
	whh [][]float64
	bh  []float64
	why []float64
	by  float64
}

func newGradients(hidden int) *gradients {
	g := &gradients{
		wxh: make([]float64, hidden),
		whh: make([][]float64, hidden),
		bh:  make([]float64, hidden),
		why: make([]float64, hidden),
	}
	for i := range g.whh {
		g.whh[i] = make([]float64, hidden)
	}
	return g
}

const (
	adamLearningRate = 0.01
	adamBeta1        = 0.9
	adamBeta2        = 0.999
	adamEpsilon      = 1e-8
)

// adam keeps first/second moment estimates for every parameter, flattened
// into one vector in a fixed layout: wxh, whh row-major, bh, why, by.
type adam struct {
	m, v []float64
	t    int
}

func newAdam(hidden int) *adam {
	size := hidden + hidden*hidden + hidden + hidden + 1
	return &adam{m: make([]float64, size), v: make([]float64, size)}
}

func (a *adam) apply(n *recurrentNet, g *gradients) {
	a.t++
	idx := 0
	update := func(param *float64, grad float64) {
		a.m[idx] = adamBeta1*a.m[idx] + (1-adamBeta1)*grad
		a.v[idx] = adamBeta2*a.v[idx] + (1-adamBeta2)*grad*grad
		mHat := a.m[idx] / (1 - math.Pow(adamBeta1, float64(a.t)))
		vHat := a.v[idx] / (1 - math.Pow(adamBeta2, float64(a.t)))
		*param -= adamLearningRate * mHat / (math.Sqrt(vHat) + adamEpsilon)
		idx++
	}

	for i := range n.wxh {
		update(&n.wxh[i], g.wxh[i])
	}
	for i := range n.whh {
		for j := range n.whh[i] {
			update(&n.whh[i][j], g.whh[i][j])
		}
	}
	for i := range n.bh {
		update(&n.bh[i], g.bh[i])
	}
	for i := range n.why {
		update(&n.why[i], g.why[i])
	}
	update(&n.by, g.by)
}
