package swathio

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetch(t *testing.T) {
	payload := bytes.Repeat([]byte("swath"), 5000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/A2006303_subset.h5" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "data.h5")
	n, err := Fetch(context.Background(), srv.URL+"/A2006303_subset.h5", out)
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(payload)) {
		t.Errorf("got %d bytes, want %d", n, len(payload))
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("downloaded content differs")
	}

	if _, err := Fetch(context.Background(), srv.URL+"/missing.h5", out); err == nil {
		t.Errorf("expected error for 404")
	}
}
