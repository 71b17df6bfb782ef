package swathio

import (
	"errors"
	"math"
	"math/rand"

	"swath-tools/bintools"
)

var ErrNoCoordinates = errors.New("no finite coordinates")

// DataRange returns the range spanned by the finite values. The maximum
// is moved up by one ulp so the largest value still falls in the
// half-open range.
func DataRange(values []float64) (bintools.Range, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return bintools.Range{}, ErrNoCoordinates
	}
	return bintools.Range{Min: lo, Max: math.Nextafter(hi, math.Inf(1))}, nil
}

// SyntheticSwath fakes a sensor granule over lonRange and latRange:
// scan lines run along latitude with a slight tilt and jitter, and the
// values look like brightness temperatures.
func SyntheticSwath(rows, cols int, lonRange, latRange bintools.Range, seed int64) *bintools.Swath {
	rng := rand.New(rand.NewSource(seed))
	swath := &bintools.Swath{
		Data: bintools.NewGrid(rows, cols),
		Lon:  bintools.NewGrid(rows, cols),
		Lat:  bintools.NewGrid(rows, cols),
	}
	lonSpan := lonRange.Max - lonRange.Min
	latSpan := latRange.Max - latRange.Min
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			u := (float64(c) + rng.Float64()) / float64(cols)
			v := (float64(r) + rng.Float64()) / float64(rows)
			lon := lonRange.Min + lonSpan*(0.9*u+0.1*v)
			lat := latRange.Min + latSpan*v
			swath.Lon.Set(r, c, lon)
			swath.Lat.Set(r, c, lat)
			swath.Data.Set(r, c, 280+15*math.Sin(2*math.Pi*u)*math.Cos(math.Pi*v)+rng.NormFloat64())
		}
	}
	return swath
}
