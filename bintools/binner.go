package bintools

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	ErrShapeMismatch     = errors.New("sample, longitude and latitude shapes differ")
	ErrInvalidResolution = errors.New("resolution must be positive and finite")
	ErrInvalidRange      = errors.New("axis range must satisfy min < max")
)

// Binner re-bins a swath onto a regular longitude/latitude grid of
// resolution res. Rows of the result follow latitude, columns longitude.
type Binner func(sample, lon, lat *Grid, lonRange, latRange Range, res float64) (*BinGrid, error)

// BinSwath runs binner over the three grids of a swath.
func BinSwath(binner Binner, swath *Swath, lonRange, latRange Range, res float64) (*BinGrid, error) {
	return binner(swath.Data, swath.Lon, swath.Lat, lonRange, latRange, res)
}

// ChooseBinner resolves a binner by name: reference, indexed or parallel.
func ChooseBinner(name string, numWorkers int) (Binner, error) {
	switch name {
	case "reference":
		return Reference, nil
	case "indexed":
		return Indexed, nil
	case "parallel":
		return IndexedParallel(numWorkers), nil
	default:
		return nil, fmt.Errorf("binner %q not recognized, choose from: reference, indexed, parallel", name)
	}
}

// prepare checks the inputs and builds both axes.
func prepare(sample, lon, lat *Grid, lonRange, latRange Range, res float64) (Axis, Axis, error) {
	for _, g := range []*Grid{sample, lon, lat} {
		if g == nil {
			return Axis{}, Axis{}, fmt.Errorf("nil grid: %w", ErrShapeMismatch)
		}
		if err := g.check(); err != nil {
			return Axis{}, Axis{}, err
		}
	}
	if !sample.sameShape(lon) || !sample.sameShape(lat) {
		return Axis{}, Axis{}, fmt.Errorf("sample %dx%d, longitude %dx%d, latitude %dx%d: %w",
			sample.Rows, sample.Cols, lon.Rows, lon.Cols, lat.Rows, lat.Cols, ErrShapeMismatch)
	}
	if err := validateResolution(res); err != nil {
		return Axis{}, Axis{}, err
	}

	lonAxis, err := NewAxis(lonRange, res)
	if err != nil {
		return Axis{}, Axis{}, fmt.Errorf("longitude: %w", err)
	}
	latAxis, err := NewAxis(latRange, res)
	if err != nil {
		return Axis{}, Axis{}, fmt.Errorf("latitude: %w", err)
	}
	logrus.Debugf("Binning %d samples onto %dx%d grid", sample.Len(), latAxis.NumBins(), lonAxis.NumBins())
	return lonAxis, latAxis, nil
}
