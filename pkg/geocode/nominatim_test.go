package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liberty-analytics/panel-cli/internal/resilience"
)

func newTestClient(srvURL string, opts ...Option) Client {
	base := []Option{
		WithBaseURL(srvURL),
		WithMinDelay(time.Millisecond),
	}
	return NewClient(append(base, opts...)...)
}

func TestLookup_ParsesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "moi ave, Nairobi, Nairobi County, Kenya", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat":"-1.28333","lon":"36.81667","display_name":"Moi Avenue, Nairobi"}]`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	loc, err := c.Lookup(context.Background(), "moi ave, Nairobi, Nairobi County, Kenya")
	require.NoError(t, err)
	assert.InDelta(t, -1.28333, loc.Latitude, 1e-9)
	assert.InDelta(t, 36.81667, loc.Longitude, 1e-9)
	assert.Equal(t, "Moi Avenue, Nairobi", loc.DisplayName)
}

func TestLookup_EmptyResponseIsNoResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[]`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	loc, err := c.Lookup(context.Background(), "nowhere at all")
	assert.Nil(t, loc)
	assert.ErrorIs(t, err, ErrNoResult)
	assert.True(t, IsNoResult(err))
}

func TestLookup_ZeroCoordinatesAreValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat":"0","lon":"0","display_name":"Null Island"}]`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	loc, err := c.Lookup(context.Background(), "null island")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Zero(t, loc.Latitude)
	assert.Zero(t, loc.Longitude)
}

func TestLookup_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Lookup(context.Background(), "anywhere")
	require.Error(t, err)
	assert.True(t, resilience.IsTransient(err))
	assert.False(t, IsNoResult(err))
}

func TestLookup_ClientErrorIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Lookup(context.Background(), "anywhere")
	require.Error(t, err)
	assert.False(t, resilience.IsTransient(err))
}

func TestLookup_EmptyQueryShortCircuits(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Lookup(context.Background(), "")
	assert.True(t, IsNoResult(err))
	assert.Equal(t, int32(0), hits.Load())
}

func TestLookup_RateGateSpacesCalls(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat":"1","lon":"2","display_name":"x"}]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithMinDelay(60*time.Millisecond))

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Lookup(context.Background(), "somewhere")
		require.NoError(t, err)
	}
	// Three call starts, two mandatory gaps.
	assert.GreaterOrEqual(t, time.Since(start), 120*time.Millisecond)
}

func TestLookup_RateGateSharedAcrossCallers(t *testing.T) {
	var concurrent, maxConcurrent atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		cur := concurrent.Add(1)
		for {
			prev := maxConcurrent.Load()
			if cur <= prev || maxConcurrent.CompareAndSwap(prev, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		concurrent.Add(-1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[{"lat":"1","lon":"2","display_name":"x"}]`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithMinDelay(20*time.Millisecond))

	done := make(chan struct{})
	for i := 0; i < 4; i++ {
		go func() {
			defer func() { done <- struct{}{} }()
			_, _ = c.Lookup(context.Background(), "somewhere")
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}
	// The shared gate admits one call start per interval, so requests
	// never overlap even with concurrent callers.
	assert.Equal(t, int32(1), maxConcurrent.Load())
}
