package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aikapulse/aikapulse/internal/cache"
	"github.com/aikapulse/aikapulse/internal/snapshot"
)

func weatherResult() snapshot.RawResult {
	temp := -4.5
	return snapshot.RawResult{
		Domain:    snapshot.DomainWeather,
		Provider:  "open-meteo",
		FetchedAt: time.Now(),
		Payload:   &snapshot.WeatherObservation{Temperature: &temp},
	}
}

func TestKey_RoundsCoordinates(t *testing.T) {
	a := cache.Key(snapshot.DomainWeather, 60.16993, 24.93841, "")
	b := cache.Key(snapshot.DomainWeather, 60.17001, 24.93839, "")
	assert.Equal(t, a, b, "float jitter within ~1km must map to one key")

	c := cache.Key(snapshot.DomainWeather, 61.0, 24.93841, "")
	assert.NotEqual(t, a, c)

	assert.Equal(t, "weather:60.17:24.94", a)
	assert.Equal(t, "weather:60.17:24.94:hourly", cache.Key(snapshot.DomainWeather, 60.17, 24.94, "hourly"))
}

func TestKey_SeparatesDomains(t *testing.T) {
	w := cache.Key(snapshot.DomainWeather, 60.17, 24.94, "")
	u := cache.Key(snapshot.DomainUV, 60.17, 24.94, "")
	assert.NotEqual(t, w, u)
}

func TestDefaultTTLs_CoversEveryDomain(t *testing.T) {
	ttls := cache.DefaultTTLs()
	for _, d := range snapshot.AllDomains {
		assert.Contains(t, ttls, d)
	}
	assert.Equal(t, 5*time.Minute, ttls[snapshot.DomainNowcast])
	assert.Equal(t, 2*time.Hour, ttls[snapshot.DomainAurora])
}

func TestMemoryStore_PutGet(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	key := cache.Key(snapshot.DomainWeather, 60.17, 24.94, "")

	store.Put(ctx, key, weatherResult(), time.Minute)

	got, ok := store.Get(ctx, key)
	require.True(t, ok)
	assert.True(t, got.FromCache)
	assert.GreaterOrEqual(t, got.Age, time.Duration(0))
	assert.Equal(t, "open-meteo", got.Provider)

	weather, ok := snapshot.RawData{snapshot.DomainWeather: got}.Weather()
	require.True(t, ok)
	assert.Equal(t, -4.5, *weather.Temperature)
}

func TestMemoryStore_MissOnUnknownKey(t *testing.T) {
	store := cache.NewMemoryStore()
	_, ok := store.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestMemoryStore_ExpiredEntryIsMissAndEvicted(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	store.Put(ctx, "k", weatherResult(), time.Nanosecond)
	time.Sleep(5 * time.Millisecond)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len(), "expired entry is evicted on read")
}

func TestMemoryStore_LatestPutWins(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	first := weatherResult()
	first.Provider = "first"
	second := weatherResult()
	second.Provider = "second"

	store.Put(ctx, "k", first, time.Minute)
	store.Put(ctx, "k", second, time.Minute)

	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "second", got.Provider)
}

func TestMemoryStore_NonPositiveTTLIsNoop(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	store.Put(ctx, "k", weatherResult(), 0)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}
