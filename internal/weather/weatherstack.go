package weather

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/illegalcall/wardrobe/internal/models"
)

// WeatherstackProvider queries the Weatherstack current conditions endpoint.
type WeatherstackProvider struct {
	apiKey  string
	baseURL string
	client  *http.Client
	now     func() time.Time
}

func NewWeatherstackProvider(apiKey, baseURL string) *WeatherstackProvider {
	return &WeatherstackProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		now:     time.Now,
	}
}

func (p *WeatherstackProvider) Current(ctx context.Context, location string) (models.WeatherContext, error) {
	if p.apiKey == "" {
		return models.WeatherContext{}, ErrNotConfigured
	}

	q := url.Values{}
	q.Set("access_key", p.apiKey)
	q.Set("query", location)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/current?"+q.Encode(), nil)
	if err != nil {
		return models.WeatherContext{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return models.WeatherContext{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.WeatherContext{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.WeatherContext{}, fmt.Errorf("weather request failed with status %d: %s", resp.StatusCode, string(body))
	}
	if !gjson.ValidBytes(body) {
		return models.WeatherContext{}, fmt.Errorf("invalid weather response")
	}

	// Weatherstack reports errors with a 200 status and an "error" object.
	data := gjson.ParseBytes(body)
	if e := data.Get("error"); e.Exists() {
		return models.WeatherContext{}, fmt.Errorf("weather provider error %d: %s", e.Get("code").Int(), e.Get("info").String())
	}
	current := data.Get("current")
	if !current.Get("temperature").Exists() {
		return models.WeatherContext{}, fmt.Errorf("weather response has no current temperature")
	}

	conditions := current.Get("weather_descriptions.0").String()
	if conditions == "" {
		conditions = "unknown"
	}
	return models.WeatherContext{
		Location:    location,
		Temperature: current.Get("temperature").Float(),
		Conditions:  conditions,
		Description: conditions,
		Humidity:    int(current.Get("humidity").Int()),
		WindSpeed:   current.Get("wind_speed").Float(),
		Precip:      current.Get("precip").Float(),
		Timestamp:   p.now(),
	}, nil
}
