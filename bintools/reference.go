package bintools

// Reference bins every sample in a single pass over the swath, then
// averages each bin. It is the straightforward implementation that
// Indexed is checked against.
func Reference(sample, lon, lat *Grid, lonRange, latRange Range, res float64) (*BinGrid, error) {
	lonAxis, latAxis, err := prepare(sample, lon, lat, lonRange, latRange, res)
	if err != nil {
		return nil, err
	}

	out := newBinGrid(lonAxis, latAxis)
	cols := out.Cols()
	for n := range sample.Values {
		row := latAxis.Index(lat.Values[n])
		col := lonAxis.Index(lon.Values[n])
		if row == OutOfRange || col == OutOfRange {
			out.Dropped++
			continue
		}
		i := row*cols + col
		out.Count.Values[i]++
		out.Lon.Values[i] += lon.Values[n]
		out.Lat.Values[i] += lat.Values[n]
		out.Data.Values[i] += sample.Values[n]
	}

	out.finalize()
	return out, nil
}
