package bintools

import (
	"fmt"
	"math"
	"sort"
)

// OutOfRange is the bin index given to values outside an axis range.
const OutOfRange = -1

// MaxBins caps the number of bins along one axis.
const MaxBins = 1 << 24

// Range is the half-open interval [Min, Max) covered by an axis.
type Range struct {
	Min float64
	Max float64
}

func (r Range) String() string {
	return fmt.Sprintf("[%v, %v)", r.Min, r.Max)
}

func (r Range) validate() error {
	if math.IsNaN(r.Min) || math.IsNaN(r.Max) || math.IsInf(r.Min, 0) || math.IsInf(r.Max, 0) {
		return fmt.Errorf("range %v is not finite: %w", r, ErrInvalidRange)
	}
	if r.Min >= r.Max {
		return fmt.Errorf("range %v is empty: %w", r, ErrInvalidRange)
	}
	return nil
}

// Axis holds the bin edges along one coordinate. Edges start at the
// range minimum and step by the resolution while staying below the
// maximum, so the final bin may be narrower than the others.
type Axis struct {
	Range      Range
	Resolution float64
	Edges      []float64
}

func NewAxis(r Range, res float64) (Axis, error) {
	if err := validateResolution(res); err != nil {
		return Axis{}, err
	}
	if err := r.validate(); err != nil {
		return Axis{}, err
	}

	span := (r.Max - r.Min) / res
	if math.IsNaN(span) || math.IsInf(span, 0) || span > MaxBins {
		return Axis{}, fmt.Errorf("resolution %v over range %v gives more than %d bins: %w", res, r, MaxBins, ErrInvalidResolution)
	}
	n := int(math.Ceil(span))
	edges := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		edge := r.Min + float64(i)*res
		if edge >= r.Max {
			break
		}
		edges = append(edges, edge)
	}
	return Axis{r, res, edges}, nil
}

func validateResolution(res float64) error {
	if !(res > 0) || math.IsInf(res, 0) {
		return fmt.Errorf("resolution %v: %w", res, ErrInvalidResolution)
	}
	return nil
}

func (a Axis) NumBins() int {
	return len(a.Edges)
}

// Index returns the bin holding v: one less than the position of the
// first edge strictly greater than v. A value equal to an edge lands in
// the bin starting at that edge. Values outside [Min, Max), and NaN,
// give OutOfRange.
func (a Axis) Index(v float64) int {
	if !(v >= a.Range.Min && v < a.Range.Max) {
		return OutOfRange
	}
	i := sort.Search(len(a.Edges), func(i int) bool { return a.Edges[i] > v })
	return i - 1
}

// Assign maps every value to its bin index.
func (a Axis) Assign(values []float64) []int {
	out := make([]int, len(values))
	for n, v := range values {
		out[n] = a.Index(v)
	}
	return out
}

// Center is the midpoint of bin i, clipped to the range maximum for a
// short final bin.
func (a Axis) Center(i int) float64 {
	lo := a.Edges[i]
	hi := math.Min(lo+a.Resolution, a.Range.Max)
	return (lo + hi) / 2
}

// ShortFinalBin reports whether the last bin is cut off by the range
// maximum, i.e. the range is not a whole number of resolution steps.
func (a Axis) ShortFinalBin() bool {
	if len(a.Edges) == 0 {
		return false
	}
	last := a.Edges[len(a.Edges)-1]
	return a.Range.Max-last < a.Resolution*(1-1e-9)
}

// Bounds returns the lower and upper edge of bin i.
func (a Axis) Bounds(i int) (float64, float64) {
	lo := a.Edges[i]
	return lo, math.Min(lo+a.Resolution, a.Range.Max)
}
