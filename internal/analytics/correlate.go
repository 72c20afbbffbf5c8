package analytics

import (
	"math"

	"github.com/sells-group/esg-insight/internal/dataset"
	"github.com/sells-group/esg-insight/internal/model"
)

// minCorrelationSamples is the smallest series length a coefficient is
// reported for; anything shorter is Undefined.
const minCorrelationSamples = 3

// PairKey identifies an unordered metric pair. Construct it with NewPairKey
// so (a,b) and (b,a) address the same cell.
type PairKey struct {
	A model.Metric
	B model.Metric
}

// NewPairKey normalizes the pair ordering.
func NewPairKey(a, b model.Metric) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{A: a, B: b}
}

// Coefficient is one cell of a correlation matrix. Undefined marks degenerate
// pairs (too few samples or zero variance); such cells carry no coefficient
// rather than a misleading 0 or 1.
type Coefficient struct {
	R         float64 `json:"r"`
	N         int     `json:"n"`
	Undefined bool    `json:"undefined,omitempty"`
}

// CorrelationMatrix maps unordered metric pairs to Pearson coefficients.
type CorrelationMatrix struct {
	Cells map[PairKey]Coefficient `json:"-"`
	Pairs []PairKey               `json:"pairs"`
}

// Get returns the coefficient for a pair regardless of argument order.
func (m *CorrelationMatrix) Get(a, b model.Metric) (Coefficient, bool) {
	c, ok := m.Cells[NewPairKey(a, b)]
	return c, ok
}

// Correlate computes Pearson correlation for each requested metric pair over
// the view. The computation uses running sums and sums of squares only, so
// row order cannot influence the coefficient beyond float addition order.
// Rows missing either value are excluded from that pair's sample.
func Correlate(v dataset.View, pairs [][2]model.Metric) *CorrelationMatrix {
	matrix := &CorrelationMatrix{Cells: make(map[PairKey]Coefficient, len(pairs))}

	for _, p := range pairs {
		key := NewPairKey(p[0], p[1])
		if _, done := matrix.Cells[key]; done {
			continue
		}
		matrix.Cells[key] = pearson(v, p[0], p[1])
		matrix.Pairs = append(matrix.Pairs, key)
	}
	return matrix
}

// pearson computes one coefficient from the standard five running sums.
func pearson(v dataset.View, a, b model.Metric) Coefficient {
	var n int
	var sumX, sumY, sumXX, sumYY, sumXY float64

	for _, o := range v.Observations() {
		x, okX := o.Value(a)
		y, okY := o.Value(b)
		if !okX || !okY {
			continue
		}
		n++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}

	if n < minCorrelationSamples {
		return Coefficient{N: n, Undefined: true}
	}

	fn := float64(n)
	varX := fn*sumXX - sumX*sumX
	varY := fn*sumYY - sumY*sumY
	if varX <= 0 || varY <= 0 {
		return Coefficient{N: n, Undefined: true}
	}

	r := (fn*sumXY - sumX*sumY) / math.Sqrt(varX*varY)
	// Clamp float noise so callers can rely on [-1, 1].
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return Coefficient{R: r, N: n}
}
