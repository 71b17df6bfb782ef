package bintools

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// AxisIndex records, for one axis, the bin of every sample and the
// ascending sample positions that fall in each bin. Samples outside the
// axis range belong to no bin.
type AxisIndex struct {
	Axis    Axis
	Bins    []int
	offsets []int
	members []int
}

// NewAxisIndex assigns values to the bins of axis once, grouping sample
// positions per bin with a counting sort.
func NewAxisIndex(axis Axis, values []float64) *AxisIndex {
	bins := axis.Assign(values)
	offsets := make([]int, axis.NumBins()+1)
	for _, b := range bins {
		if b != OutOfRange {
			offsets[b+1]++
		}
	}
	for b := 1; b < len(offsets); b++ {
		offsets[b] += offsets[b-1]
	}

	members := make([]int, offsets[len(offsets)-1])
	next := make([]int, axis.NumBins())
	copy(next, offsets)
	for n, b := range bins {
		if b == OutOfRange {
			continue
		}
		members[next[b]] = n
		next[b]++
	}
	return &AxisIndex{axis, bins, offsets, members}
}

// Members returns the sample positions assigned to bin b, in ascending
// order. The slice must not be modified.
func (x *AxisIndex) Members(b int) []int {
	return x.members[x.offsets[b]:x.offsets[b+1]]
}

// InRange is the number of samples assigned to some bin.
func (x *AxisIndex) InRange() int {
	return len(x.members)
}

// Indexed computes the same result as Reference, but assigns bins per
// axis up front and then aggregates one latitude row at a time. Only the
// latitude assignment is grouped per bin; longitude bins are looked up
// per sample.
func Indexed(sample, lon, lat *Grid, lonRange, latRange Range, res float64) (*BinGrid, error) {
	return IndexedParallel(1)(sample, lon, lat, lonRange, latRange, res)
}

// IndexedParallel returns an Indexed binner that spreads latitude rows
// over numWorkers goroutines. Each worker owns whole output rows, so the
// result is identical to the serial one.
func IndexedParallel(numWorkers int) Binner {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return func(sample, lon, lat *Grid, lonRange, latRange Range, res float64) (*BinGrid, error) {
		lonAxis, latAxis, err := prepare(sample, lon, lat, lonRange, latRange, res)
		if err != nil {
			return nil, err
		}

		lonBins := lonAxis.Assign(lon.Values)
		latIndex := NewAxisIndex(latAxis, lat.Values)
		out := newBinGrid(lonAxis, latAxis)
		out.Dropped = int64(sample.Len() - latIndex.InRange())

		if numWorkers == 1 {
			for row := 0; row < out.Rows(); row++ {
				out.Dropped += aggregateRow(out, row, sample, lon, lat, lonBins, latIndex)
			}
			out.finalize()
			return out, nil
		}

		rows := genRows(out.Rows())
		var dropped int64
		var wg sync.WaitGroup
		wg.Add(numWorkers)
		for i := 0; i < numWorkers; i++ {
			go func() {
				defer wg.Done()
				var n int64
				for row := range rows {
					n += aggregateRow(out, row, sample, lon, lat, lonBins, latIndex)
					out.finalizeRows(row, row+1)
				}
				atomic.AddInt64(&dropped, n)
			}()
		}
		wg.Wait()
		out.Dropped += dropped
		logrus.Debugf("Aggregated %d rows with %d workers", out.Rows(), numWorkers)
		return out, nil
	}
}

func genRows(numRows int) <-chan int {
	rows := make(chan int)
	go func() {
		defer close(rows)
		for row := 0; row < numRows; row++ {
			rows <- row
		}
	}()
	return rows
}

// aggregateRow sums the samples of one latitude bin into its output row
// and returns how many of them fell outside the longitude range.
func aggregateRow(out *BinGrid, row int, sample, lon, lat *Grid, lonBins []int, latIndex *AxisIndex) int64 {
	var dropped int64
	base := row * out.Cols()
	for _, n := range latIndex.Members(row) {
		col := lonBins[n]
		if col == OutOfRange {
			dropped++
			continue
		}
		i := base + col
		out.Count.Values[i]++
		out.Lon.Values[i] += lon.Values[n]
		out.Lat.Values[i] += lat.Values[n]
		out.Data.Values[i] += sample.Values[n]
	}
	return dropped
}
