// Package weather implements a thin client for the OpenWeatherMap current
// conditions API. Each lookup is a single request/response round trip.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/edgard/nagbot/internal/config"
)

// Conditions holds the subset of the provider response the bot reports.
type Conditions struct {
	Location    string
	Description string
	Temperature float64
	FeelsLike   float64
	Humidity    int
}

// Client queries current weather conditions for a city.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *slog.Logger
}

// NewClient creates a weather client from configuration.
func NewClient(cfg config.WeatherConfig, log *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		log:        log.With("component", "weather_client"),
	}
}

// providerResponse mirrors the OpenWeatherMap /weather payload fields we use.
type providerResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
}

// Current fetches current conditions for the given city, in metric units.
func (c *Client) Current(ctx context.Context, city string) (*Conditions, error) {
	if city == "" {
		return nil, fmt.Errorf("city must not be empty")
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	endpoint := fmt.Sprintf("%s/weather?%s", c.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "Weather request failed", "city", city, "error", err)
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WarnContext(ctx, "Weather provider returned non-OK status", "city", city, "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("weather provider returned status %d", resp.StatusCode)
	}

	var payload providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(payload.Weather) == 0 {
		return nil, fmt.Errorf("weather response missing conditions")
	}

	return &Conditions{
		Location:    payload.Name,
		Description: payload.Weather[0].Description,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
	}, nil
}
