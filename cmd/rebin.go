package cmd

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"swath-tools/bintools"
	"swath-tools/swathio"
	"swath-tools/swathplot"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rebinCmd represents the rebin command
var rebinCmd = &cobra.Command{
	Use:   "rebin [swath_file] [output_path]",
	Short: "Re-bin a swath onto a regular longitude/latitude grid",
	Long: `Read the data, longitude and latitude arrays of a swath and
	average them onto a regular grid. Bins without samples are written
	as NaN with a count of 0; samples outside the ranges are dropped.

	Options:
		--resolution:  Bin width in degrees, shared by both axes.
		--lonMin/--lonMax/--latMin/--latMax:
		               Grid ranges. Any bound left unset is taken from the data.
		--dataVar/--lonVar/--latVar:
		               Subdatasets of the swath file, opened with --subdatasetFormat.
		               Defaults match MODIS granules (channel31, longitude, lattitude).
		               Set all three to "" to read bands 1-3 of a plain raster instead.
		--binner:      reference, indexed or parallel.
		--format:      csv, parquet or tif. Defaults to the output extension.
		--plotDir:     Also write quick-look figures to this directory.`,
	Args:    cobra.ExactArgs(2),
	PreRunE: bindCommandFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		setLogLevels()

		swath, err := swathio.ReadSwath(swathSource(args[0]))
		if err != nil {
			return err
		}
		lonRange, latRange, err := gridRanges(swath)
		if err != nil {
			return err
		}

		binner, err := bintools.ChooseBinner(viper.GetString("binner"), viper.GetInt("numWorkers"))
		if err != nil {
			return err
		}
		start := time.Now()
		grid, err := bintools.BinSwath(binner, swath, lonRange, latRange, viper.GetFloat64("resolution"))
		if err != nil {
			return err
		}
		logrus.Infof("Binned onto %dx%d grid in %v: %d bins populated, %d samples dropped",
			grid.Rows(), grid.Cols(), time.Since(start), grid.Populated(), grid.Dropped)

		if err := writeGrid(grid, args[1], viper.GetString("format")); err != nil {
			return err
		}
		if dir := viper.GetString("plotDir"); dir != "" {
			return writeFigures(swath, grid, dir)
		}
		return nil
	},
}

func swathSource(path string) swathio.SwathSource {
	return swathio.SwathSource{
		Path:    path,
		Format:  viper.GetString("subdatasetFormat"),
		DataVar: viper.GetString("dataVar"),
		LonVar:  viper.GetString("lonVar"),
		LatVar:  viper.GetString("latVar"),
	}
}

// gridRanges resolves the configured ranges, filling unset bounds from
// the extent of the swath coordinates.
func gridRanges(swath *bintools.Swath) (bintools.Range, bintools.Range, error) {
	lonRange, err := configuredRange("lon", swath.Lon.Values)
	if err != nil {
		return bintools.Range{}, bintools.Range{}, fmt.Errorf("longitude: %w", err)
	}
	latRange, err := configuredRange("lat", swath.Lat.Values)
	if err != nil {
		return bintools.Range{}, bintools.Range{}, fmt.Errorf("latitude: %w", err)
	}
	logrus.Infof("Longitude range %v, latitude range %v", lonRange, latRange)
	return lonRange, latRange, nil
}

func configuredRange(prefix string, values []float64) (bintools.Range, error) {
	r := bintools.Range{Min: viper.GetFloat64(prefix + "Min"), Max: viper.GetFloat64(prefix + "Max")}
	if !math.IsNaN(r.Min) && !math.IsNaN(r.Max) {
		return r, nil
	}
	extent, err := swathio.DataRange(values)
	if err != nil {
		return bintools.Range{}, err
	}
	if math.IsNaN(r.Min) {
		r.Min = extent.Min
	}
	if math.IsNaN(r.Max) {
		r.Max = extent.Max
	}
	return r, nil
}

func writeGrid(grid *bintools.BinGrid, path string, format string) error {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	switch strings.ToLower(format) {
	case "csv":
		return swathio.WriteCSV(grid, path)
	case "parquet":
		return swathio.WriteParquet(grid, path, viper.GetInt("s2Lvl"))
	case "tif", "tiff", "gtiff":
		return swathio.WriteGeoTIFF(grid, path)
	default:
		return fmt.Errorf("output format %q not recognized, choose from: csv, parquet, tif", format)
	}
}

func writeFigures(swath *bintools.Swath, grid *bintools.BinGrid, dir string) error {
	if err := swathplot.LonHistogram(swath, filepath.Join(dir, "step1.png")); err != nil {
		return err
	}
	if err := swathplot.DataHistogram(grid, filepath.Join(dir, "step2.png")); err != nil {
		return err
	}
	return swathplot.HeatMap(grid, viper.GetString("dataVar"), filepath.Join(dir, "step3.png"))
}

// addSwathFlags registers the flags shared by commands that read a swath.
func addSwathFlags(cmd *cobra.Command) {
	cmd.Flags().String("dataVar", "channel31", "Subdataset holding the sample values")
	cmd.Flags().String("lonVar", "longitude", "Subdataset holding longitudes")
	cmd.Flags().String("latVar", "lattitude", "Subdataset holding latitudes")
	cmd.Flags().String("subdatasetFormat", "HDF5", "GDAL driver prefix for subdatasets, e.g. HDF5 or NETCDF")
	cmd.Flags().Float64P("resolution", "r", 0.05, "Bin width in degrees")
	cmd.Flags().Float64("lonMin", math.NaN(), "Minimum longitude of the grid")
	cmd.Flags().Float64("lonMax", math.NaN(), "Maximum longitude of the grid (exclusive)")
	cmd.Flags().Float64("latMin", math.NaN(), "Minimum latitude of the grid")
	cmd.Flags().Float64("latMax", math.NaN(), "Maximum latitude of the grid (exclusive)")
	cmd.Flags().IntP("numWorkers", "n", 8, "Number of workers for the parallel binner")
}

func init() {
	rootCmd.AddCommand(rebinCmd)

	addSwathFlags(rebinCmd)
	rebinCmd.Flags().StringP("binner", "b", "indexed", "Binner to use, choose from: reference, indexed, parallel")
	rebinCmd.Flags().StringP("format", "f", "", "Output format: csv, parquet or tif")
	rebinCmd.Flags().IntP("s2Lvl", "l", 11, "S2 cell level used to tag bins in parquet output")
	rebinCmd.Flags().String("plotDir", "", "Directory for quick-look figures")
}
