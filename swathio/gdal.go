package swathio

import (
	"errors"
	"fmt"
	"math"

	"swath-tools/bintools"

	"github.com/airbusgeo/godal"
	"github.com/sirupsen/logrus"
)

// SwathSource names the three variables of a sensor granule. With the
// variable names set, each is opened as a GDAL subdataset of Path in the
// given Format (HDF5 when empty). Without them, bands 1 to 3 of Path hold
// data, longitude and latitude.
type SwathSource struct {
	Path    string
	Format  string
	DataVar string
	LonVar  string
	LatVar  string
}

func (s SwathSource) subdataset(name string) string {
	switch s.Format {
	case "", "HDF5":
		return fmt.Sprintf(`HDF5:"%s"://%s`, s.Path, name)
	case "NETCDF":
		return fmt.Sprintf(`NETCDF:"%s":%s`, s.Path, name)
	default:
		return fmt.Sprintf(`%s:"%s":%s`, s.Format, s.Path, name)
	}
}

func (s SwathSource) hasVars() bool {
	return s.DataVar != "" || s.LonVar != "" || s.LatVar != ""
}

// ReadSwath loads the data, longitude and latitude arrays of src.
func ReadSwath(src SwathSource) (*bintools.Swath, error) {
	godal.RegisterAll()

	var grids [3]*bintools.Grid
	if src.hasVars() {
		for i, name := range []string{src.DataVar, src.LonVar, src.LatVar} {
			if name == "" {
				return nil, fmt.Errorf("variable %d of %s not named", i+1, src.Path)
			}
			g, err := readBand(src.subdataset(name), 0)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			grids[i] = g
		}
	} else {
		for i := range grids {
			g, err := readBand(src.Path, i)
			if err != nil {
				return nil, fmt.Errorf("reading band %d of %s: %w", i+1, src.Path, err)
			}
			grids[i] = g
		}
	}

	swath := &bintools.Swath{Data: grids[0], Lon: grids[1], Lat: grids[2]}
	for _, g := range grids[1:] {
		if g.Rows != grids[0].Rows || g.Cols != grids[0].Cols {
			return nil, fmt.Errorf("%s: %w", src.Path, bintools.ErrShapeMismatch)
		}
	}
	logrus.Infof("Read %dx%d swath from %s", grids[0].Rows, grids[0].Cols, src.Path)
	return swath, nil
}

func readBand(name string, band int) (g *bintools.Grid, err error) {
	ds, err := godal.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, ds.Close())
	}()

	bands := ds.Bands()
	if band >= len(bands) {
		return nil, fmt.Errorf("%s has %d bands, need band %d", name, len(bands), band+1)
	}
	struc := bands[band].Structure()
	g = bintools.NewGrid(struc.SizeY, struc.SizeX)
	if err := bands[band].Read(0, 0, g.Values, struc.SizeX, struc.SizeY); err != nil {
		return nil, err
	}

	// Fill values become NaN so they are carried through binning as no data.
	if noData, ok := bands[band].NoData(); ok {
		for i, v := range g.Values {
			if v == noData {
				g.Values[i] = math.NaN()
			}
		}
	}
	return g, nil
}

// WriteGeoTIFF stores the grid as a four band GeoTIFF (data, longitude,
// latitude, count) in EPSG:4326. Row 0 is the southernmost bin, so the
// geotransform has a positive y step. GeoTIFF pixels are all one
// resolution wide, so when a range is not a whole number of steps the
// raster extent runs past the range maximum by part of a pixel.
func WriteGeoTIFF(grid *bintools.BinGrid, path string) (err error) {
	godal.RegisterAll()

	rows, cols := grid.Rows(), grid.Cols()
	ds, err := godal.Create(godal.GTiff, path, 4, godal.Float64, cols, rows)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ds.Close())
	}()

	for _, axis := range []bintools.Axis{grid.LonAxis, grid.LatAxis} {
		if axis.ShortFinalBin() {
			lo, _ := axis.Bounds(axis.NumBins() - 1)
			logrus.Warnf("Range %v is not a whole number of %v steps, GeoTIFF extent ends at %v",
				axis.Range, axis.Resolution, lo+axis.Resolution)
		}
	}

	res := grid.LonAxis.Resolution
	gt := [6]float64{grid.LonAxis.Range.Min, res, 0, grid.LatAxis.Range.Min, 0, res}
	if err := ds.SetGeoTransform(gt); err != nil {
		return err
	}
	srs, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return err
	}
	defer srs.Close()
	if err := ds.SetSpatialRef(srs); err != nil {
		return err
	}

	counts := make([]float64, len(grid.Count.Values))
	for i, n := range grid.Count.Values {
		counts[i] = float64(n)
	}

	bands := ds.Bands()
	for i, values := range [][]float64{grid.Data.Values, grid.Lon.Values, grid.Lat.Values} {
		if err := bands[i].SetNoData(math.NaN()); err != nil {
			return err
		}
		if err := bands[i].Write(0, 0, values, cols, rows); err != nil {
			return err
		}
	}
	if err := bands[3].Write(0, 0, counts, cols, rows); err != nil {
		return err
	}
	logrus.Infof("Wrote %dx%d grid to %s", rows, cols, path)
	return nil
}
