package geo_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikapulse/aikapulse/internal/geo"
)

const helsinkiResult = `{"results": [{
	"latitude": 60.16952,
	"longitude": 24.93545,
	"name": "Helsinki",
	"country": "Finland",
	"country_code": "fi",
	"timezone": "Europe/Helsinki"
}]}`

func newResolver(t *testing.T, body string, calls *atomic.Int32) *geo.Resolver {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		assert.Equal(t, "/v1/search", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return geo.NewResolver(geo.ResolverConfig{BaseURL: srv.URL})
}

func TestResolve(t *testing.T) {
	resolver := newResolver(t, helsinkiResult, nil)

	loc, err := resolver.Resolve(context.Background(), "Helsinki")
	require.NoError(t, err)
	assert.Equal(t, 60.16952, loc.Latitude)
	assert.Equal(t, "Helsinki", loc.City)
	assert.Equal(t, "FI", loc.CountryCode, "country code is upper-cased")
	assert.Equal(t, "Europe/Helsinki", loc.Timezone)
}

func TestResolve_CachesByNormalizedQuery(t *testing.T) {
	var calls atomic.Int32
	resolver := newResolver(t, helsinkiResult, &calls)

	_, err := resolver.Resolve(context.Background(), "Helsinki")
	require.NoError(t, err)
	_, err = resolver.Resolve(context.Background(), "  helsinki ")
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load(), "case and whitespace variants share one cache entry")
}

func TestResolve_NotFound(t *testing.T) {
	resolver := newResolver(t, `{"results": []}`, nil)

	_, err := resolver.Resolve(context.Background(), "Atlantis")
	require.Error(t, err)
	assert.ErrorIs(t, err, geo.ErrNotFound)
}

func TestResolve_EmptyQuery(t *testing.T) {
	resolver := geo.NewResolver(geo.ResolverConfig{})
	_, err := resolver.Resolve(context.Background(), "   ")
	assert.ErrorIs(t, err, geo.ErrNotFound)
}

func TestResolve_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	resolver := geo.NewResolver(geo.ResolverConfig{BaseURL: srv.URL})
	_, err := resolver.Resolve(context.Background(), "Helsinki")
	require.Error(t, err)
	assert.NotErrorIs(t, err, geo.ErrNotFound, "transport failures are not a definitive miss")
}
