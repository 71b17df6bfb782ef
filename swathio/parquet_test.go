package swathio

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/geo/s2"
)

func TestWriteParquet(t *testing.T) {
	grid := testGrid(t)
	path := filepath.Join(t.TempDir(), "grid.parquet")
	if err := WriteParquet(grid, path, 11); err != nil {
		t.Fatal(err)
	}

	rows, err := ReadParquet(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 populated bin", len(rows))
	}
	row := rows[0]
	if row.Row != 0 || row.Col != 0 || row.Value != 3 || row.Count != 2 || row.Lon != 0.5 || row.Lat != 0.5 {
		t.Errorf("got %+v", row)
	}

	want := s2.CellIDFromLatLng(s2.LatLngFromDegrees(0.5, 0.5)).Parent(11)
	if s2.CellID(row.S2id) != want {
		t.Errorf("s2 cell got %v, want %v", s2.CellID(row.S2id), want)
	}

	if want := "POLYGON((0 0, 1 0, 1 1, 0 1, 0 0))"; row.Geom != want {
		t.Errorf("geom got %s, want %s", row.Geom, want)
	}

	// A one degree bin at the equator is roughly 111.2 km on a side.
	if math.Abs(row.AreaKm2-12364) > 50 {
		t.Errorf("area got %v km2, want about 12364", row.AreaKm2)
	}
}

func TestWriteCSV(t *testing.T) {
	grid := testGrid(t)
	path := filepath.Join(t.TempDir(), "grid.csv")
	if err := WriteCSV(grid, path); err != nil {
		t.Fatal(err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "row,col,lon,lat,value,count\n0,0,0.5,0.5,3,2\n0,1,NaN,NaN,NaN,0\n"
	if got := string(content); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if strings.Count(string(content), "\n") != grid.Rows()*grid.Cols()+1 {
		t.Errorf("expected one line per bin plus header")
	}
}
