package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapCache struct {
	values map[string]interface{}
}

func newMapCache() *mapCache {
	return &mapCache{values: make(map[string]interface{})}
}

func (c *mapCache) Get(key string) (interface{}, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *mapCache) Set(key string, value interface{}, ttl time.Duration) {
	c.values[key] = value
}

func TestClient_GeocodeParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Санкт-Петербург", r.URL.Query().Get("q"))
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Saint Petersburg, Russia","lat":"59.9386","lon":"30.3141"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", newMapCache(), func(q string) string { return "geo:" + q })

	locations, err := client.Geocode(context.Background(), "Санкт-Петербург")
	assert.NoError(t, err)
	assert.Len(t, locations, 1)
	assert.Equal(t, "Saint Petersburg, Russia", locations[0].DisplayName)
	assert.InDelta(t, 59.9386, locations[0].Latitude, 0.0001)
	assert.InDelta(t, 30.3141, locations[0].Longitude, 0.0001)
}

func TestClient_GeocodeUsesCache(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Moscow","lat":"55.75","lon":"37.61"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", newMapCache(), func(q string) string { return "geo:" + q })
	ctx := context.Background()

	if _, err := client.Geocode(ctx, "Москва"); err != nil {
		t.Fatalf("первый запрос: %v", err)
	}
	// Регистр не влияет на ключ кеша.
	if _, err := client.Geocode(ctx, "МОСКВА"); err != nil {
		t.Fatalf("повторный запрос: %v", err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_GeocodeSkipsMalformedCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"display_name":"Broken","lat":"not-a-number","lon":"30"},{"display_name":"OK","lat":"1.5","lon":"2.5"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", newMapCache(), func(q string) string { return q })

	locations, err := client.Geocode(context.Background(), "anywhere")
	assert.NoError(t, err)
	assert.Len(t, locations, 1)
	assert.Equal(t, "OK", locations[0].DisplayName)
}

func TestClient_GeocodeRejectsEmptyQuery(t *testing.T) {
	client := NewClient("http://localhost", "", newMapCache(), func(q string) string { return q })

	_, err := client.Geocode(context.Background(), "   ")
	assert.Error(t, err)
}
