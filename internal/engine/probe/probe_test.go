package probe

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surge-downloader/fastdl/internal/engine/types"
)

func TestProbe_RangeCapableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		assert.Equal(t, types.UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Accept-Ranges", "bytes")
		w.Header().Set("Content-Length", "1048576")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := Probe(t.Context(), srv.Client(), srv.URL+"/file.bin", time.Second)
	require.NoError(t, err)
	assert.True(t, res.SupportsRange)
	assert.Equal(t, uint64(1048576), res.FileSize)
	assert.Equal(t, "file.bin", res.Filename)
}

func TestProbe_RangeHeaderCaseInsensitive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Accept-Ranges", "BYTES")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := Probe(t.Context(), srv.Client(), srv.URL+"/f", time.Second)
	require.NoError(t, err)
	assert.True(t, res.SupportsRange)
}

func TestProbe_NoRangeSupport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := Probe(t.Context(), srv.Client(), srv.URL+"/f", time.Second)
	require.NoError(t, err)
	assert.False(t, res.SupportsRange)
}

func TestProbe_MissingContentLengthDefaultsZero(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	res, err := Probe(t.Context(), srv.Client(), srv.URL+"/f", time.Second)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), res.FileSize)
}

func TestProbe_HTTPStatusFailsWithoutRetry(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Probe(t.Context(), srv.Client(), srv.URL+"/missing", time.Second)
	require.Error(t, err)
	var statusErr *types.ErrHTTPStatus
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "non-2xx status must not be retried")
}

func TestProbe_TransportFailureRetries(t *testing.T) {
	// httptest.Server with an immediately-closed listener address
	// simulates a connection failure on every attempt; verifies the
	// retry loop runs to exhaustion and surfaces an error instead of
	// hanging.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	badURL := srv.URL
	srv.Close() // server is now unreachable

	start := time.Now()
	_, err := Probe(t.Context(), http.DefaultClient, badURL, 200*time.Millisecond)
	elapsed := time.Since(start)

	require.Error(t, err)
	// Backoff delays before attempts 2 and 3 are 2s then 4s, but we only
	// assert the first retry's delay actually happened (non-trivial
	// elapsed time), not the full sum, to keep the test fast-failing-safe.
	assert.Greater(t, elapsed, 1900*time.Millisecond)
}
