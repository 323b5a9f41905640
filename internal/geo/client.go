package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const cacheTTL = 24 * time.Hour

// Location — результат геокодирования.
type Location struct {
	DisplayName string  `json:"display_name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Cache описывает кеш для результатов геокодирования.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

// Client — клиент геокодера с Nominatim-совместимым API.
// Результаты кешируются: внешний сервис ограничивает частоту запросов.
type Client struct {
	baseURL    string
	email      string
	httpClient *http.Client
	cache      Cache
	cacheKey   func(string) string
}

// NewClient создаёт клиент геокодера.
func NewClient(baseURL, email string, cache Cache, cacheKey func(string) string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		email:      email,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		cacheKey:   cacheKey,
	}
}

// Geocode разрешает текстовый адрес в координаты.
func (c *Client) Geocode(ctx context.Context, query string) ([]Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("geo: пустой запрос")
	}

	key := c.cacheKey(strings.ToLower(query))
	if cached, ok := c.cache.Get(key); ok {
		if locations, ok := cached.([]Location); ok {
			return locations, nil
		}
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("limit", "5")
	if c.email != "" {
		params.Set("email", c.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geo: не удалось создать запрос: %w", err)
	}
	req.Header.Set("User-Agent", "wonderwall-backend")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geo: запрос к геокодеру не удался: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo: геокодер вернул статус %d", resp.StatusCode)
	}

	var raw []struct {
		DisplayName string `json:"display_name"`
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("geo: не удалось разобрать ответ: %w", err)
	}

	locations := make([]Location, 0, len(raw))
	for _, item := range raw {
		lat, err := strconv.ParseFloat(item.Lat, 64)
		if err != nil {
			continue
		}
		lon, err := strconv.ParseFloat(item.Lon, 64)
		if err != nil {
			continue
		}
		locations = append(locations, Location{
			DisplayName: item.DisplayName,
			Latitude:    lat,
			Longitude:   lon,
		})
	}

	c.cache.Set(key, locations, cacheTTL)

	return locations, nil
}
