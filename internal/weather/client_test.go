package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
}

func TestGeocode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geo/1.0/direct", r.URL.Path)
		assert.Equal(t, "台北", r.URL.Query().Get("q"))
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Taipei","lat":25.03,"lon":121.56}]`))
	})

	place, err := client.Geocode(context.Background(), "台北")
	require.NoError(t, err)
	assert.Equal(t, "Taipei", place.Name)
	assert.InDelta(t, 25.03, place.Lat, 1e-9)
	assert.InDelta(t, 121.56, place.Lon, 1e-9)
}

func TestGeocodeNoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := client.Geocode(context.Background(), "不存在的地方")
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestGeocodeEmptyQuery(t *testing.T) {
	client := newTestClient(t, func(http.ResponseWriter, *http.Request) {
		t.Fatal("empty query must not reach the provider")
	})

	_, err := client.Geocode(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrPlaceNotFound)
}

func TestCurrent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/2.5/weather", r.URL.Path)
		assert.Equal(t, "metric", r.URL.Query().Get("units"))
		assert.Equal(t, "zh_tw", r.URL.Query().Get("lang"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"weather":[{"description":"小雨"}],
			"main":{"temp_min":15.6,"temp_max":21.2,"feels_like":17.8},
			"wind":{"speed":3.5}
		}`))
	})

	cond, err := client.Current(context.Background(), 25.03, 121.56)
	require.NoError(t, err)
	assert.Equal(t, "小雨", cond.Description)
	assert.InDelta(t, 15.6, cond.TempMin, 1e-9)
	assert.InDelta(t, 21.2, cond.TempMax, 1e-9)
	assert.InDelta(t, 17.8, cond.FeelsLike, 1e-9)
	assert.InDelta(t, 3.5, cond.WindSpeed, 1e-9)
}

func TestCurrentNonSuccessStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Current(context.Background(), 25.03, 121.56)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCurrentMissingWeatherArray(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"main":{"temp_min":10,"temp_max":12,"feels_like":9},"wind":{"speed":1}}`))
	})

	cond, err := client.Current(context.Background(), 25.03, 121.56)
	require.NoError(t, err)
	assert.Empty(t, cond.Description)
}
