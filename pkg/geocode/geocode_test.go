package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestForward(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/search", r.URL.Path)
		w.Write([]byte(`[{"lat":"23.8103","lon":"90.4125"}]`))
	}))
	defer srv.Close()

	g := NewClient(Config{BaseURL: srv.URL})

	coords := g.Forward(context.Background(), "12 Mirpur Rd", "Dhaka", "1216")
	if assert.NotNil(t, coords) {
		assert.InDelta(t, 23.8103, coords.Latitude, 1e-6)
		assert.InDelta(t, 90.4125, coords.Longitude, 1e-6)
	}

	// Second lookup for the same address is served from cache.
	g.Forward(context.Background(), "12 Mirpur Rd", "Dhaka", "1216")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestForwardNoResultDegradesToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g := NewClient(Config{BaseURL: srv.URL})
	assert.Nil(t, g.Forward(context.Background(), "", "Nowhere", ""))
}

func TestForwardUpstreamErrorDegradesToNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewClient(Config{BaseURL: srv.URL, Timeout: time.Second})
	assert.Nil(t, g.Forward(context.Background(), "x", "y", "z"))
}

func TestForwardEmptyAddress(t *testing.T) {
	g := NewClient(Config{BaseURL: "http://invalid.test"})
	assert.Nil(t, g.Forward(context.Background(), "", "", ""))
}

func TestReverse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		w.Write([]byte(`{"address":{"town":"Savar"}}`))
	}))
	defer srv.Close()

	g := NewClient(Config{BaseURL: srv.URL})
	assert.Equal(t, "Savar", g.Reverse(context.Background(), 23.85, 90.25))
}

func TestReverseFailureDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	g := NewClient(Config{BaseURL: srv.URL})
	assert.Equal(t, "", g.Reverse(context.Background(), 0, 0))
}
