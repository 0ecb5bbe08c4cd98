// Package netx holds HTTP helpers shared by the remote client and the
// connectivity probe.
package netx

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Reachable issues a HEAD request to url and reports whether a server
// answered. Any HTTP status counts as reachable; only transport failures
// (DNS, refused connections, timeouts) are returned as errors.
func Reachable(ctx context.Context, hc *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// ReadBody drains and closes resp.Body, returning at most limit bytes.
func ReadBody(resp *http.Response, limit int64) []byte {
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, limit))
	_, _ = io.Copy(io.Discard, resp.Body)
	return b
}
