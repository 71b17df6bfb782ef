package swathio

import (
	"errors"
	"fmt"
	"os"

	"swath-tools/bintools"

	"github.com/golang/geo/s2"
	"github.com/parquet-go/parquet-go"
	"github.com/sirupsen/logrus"
)

const (
	EarthRadius = 6371000
	// Rows buffered before each write and flush of the parquet writer.
	RowBufferSize = 10000
)

type BinRow struct {
	Row     int32   `parquet:"row"`
	Col     int32   `parquet:"col"`
	S2id    int64   `parquet:"s2_id"`
	Lon     float64 `parquet:"lon"`
	Lat     float64 `parquet:"lat"`
	Value   float64 `parquet:"value"`
	Count   int64   `parquet:"count"`
	AreaKm2 float64 `parquet:"area_km2"`
	Geom    string  `parquet:"geom"`
}

// GenRows produces one row per populated bin, tagging each with the S2
// cell containing the bin centre at level s2Lvl and the bin's area on
// the sphere.
func GenRows(grid *bintools.BinGrid, s2Lvl int) <-chan BinRow {
	rows := make(chan BinRow)
	go func() {
		defer close(rows)
		for r := 0; r < grid.Rows(); r++ {
			latLo, latHi := grid.LatAxis.Bounds(r)
			for c := 0; c < grid.Cols(); c++ {
				n := grid.Count.At(r, c)
				if n == 0 {
					continue
				}
				lonLo, lonHi := grid.LonAxis.Bounds(c)
				rows <- BinRow{
					Row:     int32(r),
					Col:     int32(c),
					S2id:    int64(binCell(grid, r, c, s2Lvl)),
					Lon:     grid.Lon.At(r, c),
					Lat:     grid.Lat.At(r, c),
					Value:   grid.Data.At(r, c),
					Count:   n,
					AreaKm2: binArea(latLo, latHi, lonLo, lonHi),
					Geom:    binWKT(latLo, latHi, lonLo, lonHi),
				}
			}
		}
	}()
	return rows
}

func binCell(grid *bintools.BinGrid, r, c, s2Lvl int) s2.CellID {
	center := s2.LatLngFromDegrees(grid.LatAxis.Center(r), grid.LonAxis.Center(c))
	return s2.CellIDFromLatLng(center).Parent(s2Lvl)
}

func binArea(latLo, latHi, lonLo, lonHi float64) float64 {
	rect := s2.RectFromLatLng(s2.LatLngFromDegrees(latLo, lonLo)).
		AddPoint(s2.LatLngFromDegrees(latHi, lonHi))
	return rect.Area() * EarthRadius * EarthRadius / 1e6
}

// binWKT outlines a bin as a closed WKT polygon in lon/lat order.
func binWKT(latLo, latHi, lonLo, lonHi float64) string {
	return fmt.Sprintf("POLYGON((%v %v, %v %v, %v %v, %v %v, %v %v))",
		lonLo, latLo, lonHi, latLo, lonHi, latHi, lonLo, latHi, lonLo, latLo)
}

// WriteParquet stores the populated bins of grid at path.
func WriteParquet(grid *bintools.BinGrid, path string, s2Lvl int) error {
	return StreamToParquet(GenRows(grid, s2Lvl), path)
}

func StreamToParquet(rows <-chan BinRow, path string) (err error) {
	output, err := os.Create(path)
	if err != nil {
		drain(rows)
		return err
	}
	writer := parquet.NewGenericWriter[BinRow](output, parquet.Compression(&parquet.Snappy))
	defer func() {
		err = errors.Join(err, writer.Close(), output.Close())
	}()

	var written int
	rowBuf := make([]BinRow, 0, RowBufferSize)
	flush := func() error {
		if _, err := writer.Write(rowBuf); err != nil {
			return err
		}
		if err := writer.Flush(); err != nil {
			return err
		}
		written += len(rowBuf)
		logrus.Infof("Wrote %d bins", written)
		rowBuf = rowBuf[:0]
		return nil
	}

	for row := range rows {
		rowBuf = append(rowBuf, row)
		if len(rowBuf) == RowBufferSize {
			if err := flush(); err != nil {
				drain(rows)
				return err
			}
		}
	}
	if len(rowBuf) > 0 {
		return flush()
	}
	return nil
}

func drain(rows <-chan BinRow) {
	for range rows {
	}
}

func ReadParquet(path string) ([]BinRow, error) {
	return parquet.ReadFile[BinRow](path)
}
