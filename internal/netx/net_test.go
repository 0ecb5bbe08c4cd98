package netx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReachable(t *testing.T) {
	t.Run("any status is reachable", func(t *testing.T) {
		var method string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			w.WriteHeader(http.StatusNotFound)
		}))
		defer ts.Close()

		require.NoError(t, Reachable(context.Background(), ts.Client(), ts.URL))
		require.Equal(t, http.MethodHead, method)
	})

	t.Run("closed server is unreachable", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := ts.URL
		ts.Close()

		require.Error(t, Reachable(context.Background(), http.DefaultClient, url))
	})

	t.Run("bad url", func(t *testing.T) {
		require.Error(t, Reachable(context.Background(), http.DefaultClient, "://bad"))
	})
}

func TestReadBody_Limits(t *testing.T) {
	resp := &http.Response{Body: io.NopCloser(strings.NewReader("0123456789"))}
	require.Equal(t, []byte("0123"), ReadBody(resp, 4))
}
