// Package weather looks up current conditions for a location. Lookups never
// fail from the caller's point of view: Service substitutes a fixed context
// when the upstream is unavailable.
package weather

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/illegalcall/wardrobe/internal/models"
)

// ErrNotConfigured is returned by providers without an API key.
var ErrNotConfigured = errors.New("weather provider not configured")

// Provider fetches current conditions from an upstream source.
type Provider interface {
	Current(ctx context.Context, location string) (models.WeatherContext, error)
}

// Fallback is the context used when no provider answers in time.
func Fallback(location string, now time.Time) models.WeatherContext {
	return models.WeatherContext{
		Location:    location,
		Temperature: 20,
		Conditions:  "partly cloudy",
		Description: "Weather data unavailable",
		Humidity:    50,
		WindSpeed:   10,
		Timestamp:   now,
	}
}

// Service bounds each lookup with a timeout and falls back on any error.
type Service struct {
	provider Provider
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(provider Provider, timeout time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{provider: provider, timeout: timeout, logger: logger, now: time.Now}
}

// Lookup returns the current conditions and whether the fallback was used.
func (s *Service) Lookup(ctx context.Context, location string) (models.WeatherContext, bool) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	w, err := s.provider.Current(ctx, location)
	if err != nil {
		s.logger.Warn("Weather lookup failed, using fallback", "location", location, "error", err)
		return Fallback(location, s.now()), true
	}
	return w, false
}
