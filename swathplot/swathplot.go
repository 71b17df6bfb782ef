// Package swathplot draws quick-look figures of raw swaths and binned
// grids. The output format follows the file extension (png, svg, pdf).
package swathplot

import (
	"fmt"
	"math"

	"swath-tools/bintools"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	NumHistBins = 50
	figureSize  = 6 * vg.Inch
)

// LonHistogram plots the distribution of raw longitudes in the swath.
func LonHistogram(swath *bintools.Swath, path string) error {
	return histogram(finite(swath.Lon.Values), "Raw longitudes", "longitude (deg)", path)
}

// DataHistogram plots the distribution of binned values, skipping empty bins.
func DataHistogram(grid *bintools.BinGrid, path string) error {
	return histogram(finite(grid.Data.Values), "Binned values", "value", path)
}

func histogram(values plotter.Values, title, xLabel, path string) error {
	if len(values) == 0 {
		return fmt.Errorf("%s: nothing to plot", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "count"

	h, err := plotter.NewHist(values, NumHistBins)
	if err != nil {
		return err
	}
	p.Add(h)
	logrus.Debugf("Saving %s to %s", title, path)
	return p.Save(figureSize, figureSize, path)
}

func finite(values []float64) plotter.Values {
	out := make(plotter.Values, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// gridXYZ exposes the data grid of a BinGrid to the heat map plotter,
// placing each bin at its centre.
type gridXYZ struct {
	grid *bintools.BinGrid
}

func (g gridXYZ) Dims() (c, r int) {
	return g.grid.Cols(), g.grid.Rows()
}

func (g gridXYZ) Z(c, r int) float64 {
	return g.grid.Data.At(r, c)
}

func (g gridXYZ) X(c int) float64 {
	return g.grid.LonAxis.Center(c)
}

func (g gridXYZ) Y(r int) float64 {
	return g.grid.LatAxis.Center(r)
}

// HeatMap draws the binned data on its longitude/latitude grid. Empty
// bins are left blank.
func HeatMap(grid *bintools.BinGrid, title, path string) error {
	if grid.Populated() == 0 {
		return fmt.Errorf("%s: grid has no data", title)
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "longitude (deg)"
	p.Y.Label.Text = "latitude (deg)"

	hm := plotter.NewHeatMap(gridXYZ{grid}, palette.Heat(64, 1))
	p.Add(hm)
	logrus.Debugf("Saving heat map to %s", path)
	return p.Save(figureSize, figureSize, path)
}
