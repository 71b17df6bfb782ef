package bintools

import (
	"fmt"
	"math"
)

// Grid is a row-major 2-D array of float64 values.
type Grid struct {
	Rows   int
	Cols   int
	Values []float64
}

func NewGrid(rows, cols int) *Grid {
	return &Grid{rows, cols, make([]float64, rows*cols)}
}

// GridFromRows builds a Grid from a slice of equal-length rows.
func GridFromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return &Grid{}, nil
	}
	cols := len(rows[0])
	g := NewGrid(len(rows), cols)
	for r, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d columns, want %d: %w", r, len(row), cols, ErrShapeMismatch)
		}
		copy(g.Values[r*cols:], row)
	}
	return g, nil
}

func (g *Grid) At(r, c int) float64 {
	return g.Values[r*g.Cols+c]
}

func (g *Grid) Set(r, c int, v float64) {
	g.Values[r*g.Cols+c] = v
}

func (g *Grid) Len() int {
	return g.Rows * g.Cols
}

func (g *Grid) sameShape(o *Grid) bool {
	return g.Rows == o.Rows && g.Cols == o.Cols
}

func (g *Grid) check() error {
	if g.Rows < 0 || g.Cols < 0 || len(g.Values) != g.Rows*g.Cols {
		return fmt.Errorf("grid %dx%d holds %d values: %w", g.Rows, g.Cols, len(g.Values), ErrShapeMismatch)
	}
	return nil
}

// CountGrid is a row-major 2-D array of sample counts.
type CountGrid struct {
	Rows   int
	Cols   int
	Values []int64
}

func NewCountGrid(rows, cols int) *CountGrid {
	return &CountGrid{rows, cols, make([]int64, rows*cols)}
}

func (g *CountGrid) At(r, c int) int64 {
	return g.Values[r*g.Cols+c]
}

// Total is the number of samples binned across the whole grid.
func (g *CountGrid) Total() int64 {
	var total int64
	for _, n := range g.Values {
		total += n
	}
	return total
}

// Swath bundles the three parallel arrays a sensor granule provides.
type Swath struct {
	Data *Grid
	Lon  *Grid
	Lat  *Grid
}

// BinGrid is the result of re-binning a swath. All four grids have
// LatAxis.NumBins() rows and LonAxis.NumBins() columns, and cell (r,c)
// of each refers to the same bin.
type BinGrid struct {
	Data  *Grid
	Lon   *Grid
	Lat   *Grid
	Count *CountGrid

	LonAxis Axis
	LatAxis Axis

	// Dropped counts samples whose coordinates fell outside either range.
	Dropped int64
}

func newBinGrid(lonAxis, latAxis Axis) *BinGrid {
	rows, cols := latAxis.NumBins(), lonAxis.NumBins()
	return &BinGrid{
		Data:    NewGrid(rows, cols),
		Lon:     NewGrid(rows, cols),
		Lat:     NewGrid(rows, cols),
		Count:   NewCountGrid(rows, cols),
		LonAxis: lonAxis,
		LatAxis: latAxis,
	}
}

func (b *BinGrid) Rows() int {
	return b.Count.Rows
}

func (b *BinGrid) Cols() int {
	return b.Count.Cols
}

// Populated is the number of bins holding at least one sample.
func (b *BinGrid) Populated() int {
	var n int
	for _, c := range b.Count.Values {
		if c > 0 {
			n++
		}
	}
	return n
}

// finalize turns the running sums into means, marking empty bins as NaN.
func (b *BinGrid) finalize() {
	b.finalizeRows(0, b.Rows())
}

func (b *BinGrid) finalizeRows(start, end int) {
	cols := b.Cols()
	for i := start * cols; i < end*cols; i++ {
		n := b.Count.Values[i]
		if n > 0 {
			b.Data.Values[i] /= float64(n)
			b.Lon.Values[i] /= float64(n)
			b.Lat.Values[i] /= float64(n)
		} else {
			b.Data.Values[i] = math.NaN()
			b.Lon.Values[i] = math.NaN()
			b.Lat.Values[i] = math.NaN()
		}
	}
}

// Equivalent reports whether two grids hold the same bins, counts and
// averages, treating NaN as equal to NaN.
func Equivalent(a, b *BinGrid) bool {
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() || a.Dropped != b.Dropped {
		return false
	}
	for i := range a.Count.Values {
		if a.Count.Values[i] != b.Count.Values[i] {
			return false
		}
	}
	return sameValues(a.Data.Values, b.Data.Values) &&
		sameValues(a.Lon.Values, b.Lon.Values) &&
		sameValues(a.Lat.Values, b.Lat.Values)
}

func sameValues(a, b []float64) bool {
	for i := range a {
		if math.IsNaN(a[i]) != math.IsNaN(b[i]) {
			return false
		}
		if !math.IsNaN(a[i]) && a[i] != b[i] {
			return false
		}
	}
	return true
}
