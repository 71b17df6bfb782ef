package swathio

import (
	"errors"
	"fmt"
	"os"

	"swath-tools/bintools"

	"github.com/sirupsen/logrus"
)

// WriteCSV dumps every bin of grid, empty ones included, one per line.
func WriteCSV(grid *bintools.BinGrid, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if _, err := f.WriteString("row,col,lon,lat,value,count\n"); err != nil {
		return err
	}

	for r := 0; r < grid.Rows(); r++ {
		if r%1000 == 0 {
			logrus.Infof("Writing row %d", r)
		}
		for c := 0; c < grid.Cols(); c++ {
			line := fmt.Sprintf("%d,%d,%v,%v,%v,%d\n",
				r, c, grid.Lon.At(r, c), grid.Lat.At(r, c), grid.Data.At(r, c), grid.Count.At(r, c))
			if _, err := f.WriteString(line); err != nil {
				return err
			}
		}
	}
	return f.Sync()
}
