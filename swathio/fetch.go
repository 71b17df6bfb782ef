package swathio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"
)

const fetchBlockSize = 1024

// Fetch downloads url into the file out, returning the bytes written.
func Fetch(ctx context.Context, url string, out string) (n int64, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("fetching %s: %s", url, resp.Status)
	}

	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	buf := make([]byte, fetchBlockSize)
	var blocks int
	for {
		m, rerr := resp.Body.Read(buf)
		if m > 0 {
			if _, err := f.Write(buf[:m]); err != nil {
				return n, err
			}
			n += int64(m)
			blocks++
			if blocks%10000 == 0 {
				logrus.Infof("Downloaded %d Mbytes", n/(1024*1024))
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return n, rerr
		}
	}
	logrus.Infof("Downloaded %s to %s (%d bytes)", url, out, n)
	return n, nil
}
