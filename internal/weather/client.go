// Package weather talks to OpenWeatherMap: free-text geocoding, current
// conditions, and the rendering of a human-readable report in Traditional
// Chinese.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hychen-tw/mombot/pkg/logging"
)

const defaultBaseURL = "https://api.openweathermap.org"

// ErrPlaceNotFound marks a geocoding query with no match.
var ErrPlaceNotFound = errors.New("weather: place not found")

// ErrUnavailable marks a non-success status from the conditions endpoint.
var ErrUnavailable = errors.New("weather: conditions unavailable")

// Place is a geocoded location.
type Place struct {
	Name string
	Lat  float64
	Lon  float64
}

// Conditions are the current-weather fields the report consumes.
type Conditions struct {
	Description string
	TempMin     float64
	TempMax     float64
	FeelsLike   float64
	WindSpeed   float64
}

// Config controls how the OpenWeatherMap client behaves.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client wraps the OpenWeatherMap geocoding and current-weather endpoints.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewClient creates a configured Client with sane defaults.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("weather: API key is required")
	}
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// Geocode resolves free-text location input to a canonical place. An empty
// result set is ErrPlaceNotFound, not a hard error.
func (c *Client) Geocode(ctx context.Context, query string) (*Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrPlaceNotFound
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "1")
	params.Set("appid", c.apiKey)

	var results []struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lon  float64 `json:"lon"`
	}
	if err := c.getJSON(ctx, "/geo/1.0/direct", params, &results); err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrPlaceNotFound
	}
	return &Place{Name: results[0].Name, Lat: results[0].Lat, Lon: results[0].Lon}, nil
}

// Current fetches current conditions by coordinates, metric units, zh_tw
// descriptions.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*Conditions, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", "metric")
	params.Set("lang", "zh_tw")
	params.Set("appid", c.apiKey)

	var payload struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := c.getJSON(ctx, "/data/2.5/weather", params, &payload); err != nil {
		return nil, err
	}

	cond := &Conditions{
		TempMin:   payload.Main.TempMin,
		TempMax:   payload.Main.TempMax,
		FeelsLike: payload.Main.FeelsLike,
		WindSpeed: payload.Wind.Speed,
	}
	if len(payload.Weather) > 0 {
		cond.Description = payload.Weather[0].Description
	}
	return cond, nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("openweathermap returned non-success status",
			"path", path,
			"status", resp.StatusCode,
		)
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("weather: decode %s response: %w", path, err)
	}
	return nil
}
