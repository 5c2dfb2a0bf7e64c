package adapters

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistryServer(t *testing.T, versions map[string]string, failures *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failures != nil && failures.Load() > 0 {
			failures.Add(-1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var name string
		if _, err := fmt.Sscanf(r.URL.Path, "/packages/%s", &name); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		name = name[:len(name)-len("/latest")]
		latest, ok := versions[name]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, `{"name":%q,"latest":%q}`, name, latest)
	}))
	t.Cleanup(server.Close)
	return server
}

func newHTTPAdapter(t *testing.T, endpoint string, cacheDir string) *VersionHTTPAdapter {
	t.Helper()
	adapter, err := NewVersionHTTPAdapter(VersionHTTPConfig{
		Endpoint:    endpoint,
		CacheDir:    cacheDir,
		CacheTTL:    time.Hour,
		HTTPRetries: 2,
		HTTPDelayMs: 1,
	})
	require.NoError(t, err)
	return adapter
}

func TestHTTPResolveKnownPackage(t *testing.T) {
	server := newRegistryServer(t, map[string]string{"curl": "8.4.0"}, nil)
	adapter := newHTTPAdapter(t, server.URL, t.TempDir())

	version, found, err := adapter.Resolve(context.Background(), "curl")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "8.4.0", version)
}

func TestHTTPResolveNotFound(t *testing.T) {
	server := newRegistryServer(t, map[string]string{}, nil)
	adapter := newHTTPAdapter(t, server.URL, t.TempDir())

	_, found, err := adapter.Resolve(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHTTPResolveRetriesTransientErrors(t *testing.T) {
	var failures atomic.Int32
	failures.Store(1)
	server := newRegistryServer(t, map[string]string{"curl": "8.4.0"}, &failures)
	adapter := newHTTPAdapter(t, server.URL, t.TempDir())

	version, found, err := adapter.Resolve(context.Background(), "curl")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "8.4.0", version)
}

func TestHTTPResolveServesCacheWithinTTL(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		fmt.Fprint(w, `{"name":"curl","latest":"8.4.0"}`)
	}))
	t.Cleanup(server.Close)
	adapter := newHTTPAdapter(t, server.URL, t.TempDir())

	for i := 0; i < 3; i++ {
		version, found, err := adapter.Resolve(context.Background(), "curl")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, "8.4.0", version)
	}
	assert.Equal(t, int32(1), requests.Load())
}

func TestHTTPResolveStaleCacheFallback(t *testing.T) {
	cacheDir := t.TempDir()
	server := newRegistryServer(t, map[string]string{"curl": "8.4.0"}, nil)
	adapter := newHTTPAdapter(t, server.URL, cacheDir)

	_, _, err := adapter.Resolve(context.Background(), "curl")
	require.NoError(t, err)

	// Force the cached entry past its TTL so the next resolve refetches.
	adapter.clock = func() time.Time { return time.Now().Add(48 * time.Hour) }
	server.Close()

	version, found, err := adapter.Resolve(context.Background(), "curl")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "8.4.0", version)
}

func TestHTTPResolveUnreachableWithoutCache(t *testing.T) {
	server := newRegistryServer(t, nil, nil)
	adapter := newHTTPAdapter(t, server.URL, t.TempDir())
	server.Close()

	_, found, err := adapter.Resolve(context.Background(), "curl")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestHTTPAdapterRequiresEndpoint(t *testing.T) {
	_, err := NewVersionHTTPAdapter(VersionHTTPConfig{})
	require.Error(t, err)
}
