package aggregate

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"catalogsummary/internal/table"
)

// EmptyInputError reports statistics requested over no values.
type EmptyInputError struct {
	// What names the series, e.g. a column.
	What string
}

func (e *EmptyInputError) Error() string {
	if e.What == "" {
		return "aggregate: no values to describe"
	}
	return fmt.Sprintf("aggregate: no values to describe in %s", e.What)
}

// Stats are descriptive statistics over a numeric series. StdDev is the
// population standard deviation.
type Stats struct {
	N      int     `json:"n"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// present drops NaN (missing) values and returns a sorted copy.
func present(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	sort.Float64s(out)
	return out
}

// finite is present without the infinities, which have no bin.
func finite(values []float64) []float64 {
	x := present(values)
	lo, hi := 0, len(x)
	for lo < hi && math.IsInf(x[lo], -1) {
		lo++
	}
	for hi > lo && math.IsInf(x[hi-1], 1) {
		hi--
	}
	return x[lo:hi]
}

// DescribeNumeric summarises values, ignoring NaN entries. Infinite values
// are kept and propagate into the mean and extremes. It returns an
// *EmptyInputError when nothing is left.
func DescribeNumeric(values []float64) (Stats, error) {
	x := present(values)
	if len(x) == 0 {
		return Stats{}, &EmptyInputError{}
	}
	mean, variance := stat.PopMeanVariance(x, nil)
	n := len(x)
	median := x[n/2]
	if n%2 == 0 {
		median = (x[n/2-1] + x[n/2]) / 2
	}
	return Stats{
		N:      n,
		Mean:   mean,
		Median: median,
		StdDev: math.Sqrt(variance),
		Min:    floats.Min(x),
		Max:    floats.Max(x),
	}, nil
}

// NumericColumn reads col as float64s; cells that are not numbers read as
// NaN.
func NumericColumn(t *table.Table, col string) ([]float64, error) {
	vals, err := column(t, col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(vals))
	for i, v := range vals {
		if v.Kind == table.Number {
			out[i] = v.Num
		} else {
			out[i] = math.NaN()
		}
	}
	return out, nil
}

// Histogram is an equal-width binning. Edges has len(Counts)+1 entries; every
// bin is half-open except the last, which includes its upper edge.
type Histogram struct {
	Edges  []float64 `json:"edges"`
	Counts []int     `json:"counts"`
}

// Width is the common bin width.
func (h Histogram) Width() float64 {
	if len(h.Edges) < 2 {
		return 0
	}
	return h.Edges[1] - h.Edges[0]
}

// Centers returns the midpoint of each bin.
func (h Histogram) Centers() []float64 {
	out := make([]float64, len(h.Counts))
	for i := range out {
		out[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return out
}

// Total is the number of values binned.
func (h Histogram) Total() int {
	n := 0
	for _, c := range h.Counts {
		n += c
	}
	return n
}

// NewHistogram bins values (NaN and infinities ignored) into bins
// equal-width bins spanning their range. A range of zero width is widened by 0.5 on both sides.
func NewHistogram(values []float64, bins int) (Histogram, error) {
	if bins <= 0 {
		return Histogram{}, fmt.Errorf("aggregate: bins=%d; need at least one", bins)
	}
	x := finite(values)
	if len(x) == 0 {
		return Histogram{}, &EmptyInputError{}
	}
	lo, hi := x[0], x[len(x)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	h := Histogram{Edges: floats.Span(make([]float64, bins+1), lo, hi), Counts: make([]int, bins)}
	width := (hi - lo) / float64(bins)
	for _, v := range x {
		i := int((v - lo) / width)
		if i >= bins {
			i = bins - 1
		}
		// Float rounding can land a value just left of its edge.
		for i > 0 && v < h.Edges[i] {
			i--
		}
		for i < bins-1 && v >= h.Edges[i+1] {
			i++
		}
		h.Counts[i]++
	}
	return h, nil
}

// ErrDegenerate is returned by Density when the values have no spread.
var ErrDegenerate = errors.New("aggregate: density needs at least two distinct values")

// Density evaluates a Gaussian kernel density estimate of values (NaN and
// infinities ignored) at points. The bandwidth follows Scott's rule: the sample
// standard deviation times n^(-1/5).
func Density(values, points []float64) ([]float64, error) {
	x := finite(values)
	if len(x) == 0 {
		return nil, &EmptyInputError{}
	}
	if len(x) < 2 || x[0] == x[len(x)-1] {
		return nil, ErrDegenerate
	}
	bw := stat.StdDev(x, nil) * math.Pow(float64(len(x)), -0.2)

	out := make([]float64, len(points))
	for _, xi := range x {
		k := distuv.Normal{Mu: xi, Sigma: bw}
		for j, p := range points {
			out[j] += k.Prob(p)
		}
	}
	floats.Scale(1/float64(len(x)), out)
	return out, nil
}
