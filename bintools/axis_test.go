package bintools

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestNewAxisNumBins(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		res  float64
		want int
	}{
		{"exact multiple", Range{0, 2}, 1, 2},
		{"short final bin", Range{0, 2.5}, 1, 3},
		{"negative min", Range{-1, 1}, 0.5, 4},
		{"quarter steps", Range{0, 1}, 0.25, 4},
		{"resolution wider than range", Range{0, 1}, 5, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, err := NewAxis(tt.r, tt.res)
			if err != nil {
				t.Fatal(err)
			}
			if axis.NumBins() != tt.want {
				t.Errorf("got %d bins, want %d", axis.NumBins(), tt.want)
			}
			for i, edge := range axis.Edges {
				if edge >= tt.r.Max {
					t.Errorf("edge %d = %v not below max %v", i, edge, tt.r.Max)
				}
				if i > 0 && edge <= axis.Edges[i-1] {
					t.Errorf("edges not strictly increasing at %d: %v", i, axis.Edges)
				}
			}
		})
	}
}

func TestNewAxisEdges(t *testing.T) {
	axis, err := NewAxis(Range{-1, 1}, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-1, -0.5, 0, 0.5}
	if !reflect.DeepEqual(axis.Edges, want) {
		t.Errorf("got %v, want %v", axis.Edges, want)
	}
}

func TestNewAxisErrors(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		res  float64
		want error
	}{
		{"zero resolution", Range{0, 1}, 0, ErrInvalidResolution},
		{"negative resolution", Range{0, 1}, -0.5, ErrInvalidResolution},
		{"NaN resolution", Range{0, 1}, math.NaN(), ErrInvalidResolution},
		{"infinite resolution", Range{0, 1}, math.Inf(1), ErrInvalidResolution},
		{"empty range", Range{1, 1}, 0.5, ErrInvalidRange},
		{"inverted range", Range{2, 1}, 0.5, ErrInvalidRange},
		{"NaN bound", Range{math.NaN(), 1}, 0.5, ErrInvalidRange},
		{"infinite bound", Range{0, math.Inf(1)}, 0.5, ErrInvalidRange},
		{"overflowing bin count", Range{-1e300, 1e300}, 1e-300, ErrInvalidResolution},
		{"too many bins", Range{0, 1e9}, 1e-9, ErrInvalidResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAxis(tt.r, tt.res)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAxisIndex(t *testing.T) {
	axis, err := NewAxis(Range{0, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		v    float64
		want int
	}{
		{0, 0},
		{0.5, 0},
		{1, 1}, // an edge value belongs to the bin starting there
		{1.999, 1},
		{2, 2},
		{2.999, 2},
		{3, OutOfRange},
		{42, OutOfRange},
		{-0.001, OutOfRange},
		{math.NaN(), OutOfRange},
		{math.Inf(-1), OutOfRange},
	}
	for _, tt := range tests {
		if got := axis.Index(tt.v); got != tt.want {
			t.Errorf("Index(%v) = %d, want %d", tt.v, got, tt.want)
		}
	}

	got := axis.Assign([]float64{2.5, 0, 3, 1})
	want := []int{2, 0, OutOfRange, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Assign got %v, want %v", got, want)
	}
}

func TestAxisShortFinalBin(t *testing.T) {
	axis, err := NewAxis(Range{0, 2.5}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got := axis.Index(2.4); got != 2 {
		t.Errorf("Index(2.4) = %d, want 2", got)
	}
	if got := axis.Center(2); got != 2.25 {
		t.Errorf("Center(2) = %v, want 2.25", got)
	}
	if !axis.ShortFinalBin() {
		t.Errorf("range of 2.5 steps should end in a short bin")
	}
	lo, hi := axis.Bounds(1)
	if lo != 1 || hi != 2 {
		t.Errorf("Bounds(1) = %v, %v, want 1, 2", lo, hi)
	}
}

func TestAxisWholeSteps(t *testing.T) {
	for _, tt := range []struct {
		r   Range
		res float64
	}{
		{Range{0, 2}, 1},
		{Range{-150, -120}, 0.05},
		{Range{30, 50}, 0.1},
	} {
		axis, err := NewAxis(tt.r, tt.res)
		if err != nil {
			t.Fatal(err)
		}
		if axis.ShortFinalBin() {
			t.Errorf("%v at %v reported a short final bin", tt.r, tt.res)
		}
	}
}

func TestNewAxisIndex(t *testing.T) {
	axis, err := NewAxis(Range{0, 3}, 1)
	if err != nil {
		t.Fatal(err)
	}
	values := []float64{2.5, 0.1, -1, 2.0, 0.9, 3.5, 1.5}
	index := NewAxisIndex(axis, values)

	want := [][]int{{1, 4}, {6}, {0, 3}}
	for b, members := range want {
		if got := index.Members(b); !reflect.DeepEqual(got, members) {
			t.Errorf("bin %d: got %v, want %v", b, got, members)
		}
	}
	if index.InRange() != 5 {
		t.Errorf("got %d samples in range, want 5", index.InRange())
	}
}
