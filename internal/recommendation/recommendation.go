// Package recommendation generates outfit recommendations: it enforces the
// daily quota, gathers weather and stylist answers with local fallbacks, and
// commits the result together with the usage increment.
package recommendation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/illegalcall/wardrobe/internal/ai"
	"github.com/illegalcall/wardrobe/internal/events"
	"github.com/illegalcall/wardrobe/internal/metrics"
	"github.com/illegalcall/wardrobe/internal/models"
	"github.com/illegalcall/wardrobe/internal/quota"
	"github.com/illegalcall/wardrobe/internal/store"
)

// ErrEmptyWardrobe is returned when the user has no clothing items.
var ErrEmptyWardrobe = errors.New("empty wardrobe")

// QuotaError is returned when the user's daily allowance is used up.
type QuotaError struct {
	Limit int
	Used  int
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded: %d of %d used", e.Used, e.Limit)
}

// WeatherService resolves a location and reports whether it fell back.
type WeatherService interface {
	Lookup(ctx context.Context, location string) (models.WeatherContext, bool)
}

type Request struct {
	UserID          int64
	EventType       string
	Location        string
	StylePreference string
}

type Service struct {
	store          store.Store
	weather        WeatherService
	stylist        ai.Stylist
	stylistTimeout time.Duration
	publisher      events.Publisher
	logger         *slog.Logger
	now            func() time.Time
}

func NewService(s store.Store, weather WeatherService, stylist ai.Stylist, stylistTimeout time.Duration, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:          s,
		weather:        weather,
		stylist:        stylist,
		stylistTimeout: stylistTimeout,
		publisher:      publisher,
		logger:         logger,
		now:            time.Now,
	}
}

// Generate runs one generation call. It consumes exactly one quota unit when
// it succeeds, even if the stylist proposes no outfit.
func (s *Service) Generate(ctx context.Context, req Request) (*models.GenerateResponse, error) {
	user, err := s.store.GetUser(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	wardrobe, err := s.store.ListClothingItems(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading wardrobe: %w", err)
	}
	if len(wardrobe) == 0 {
		return nil, ErrEmptyWardrobe
	}

	date := models.UsageDate(s.now())
	limit := quota.Limit(user.Tier)
	used, err := s.store.GetDailyUsage(ctx, req.UserID, date)
	if err != nil {
		return nil, fmt.Errorf("loading daily usage: %w", err)
	}
	if !quota.Allowed(user.Tier, used) {
		metrics.ObserveQuotaRejection(string(user.Tier))
		return nil, &QuotaError{Limit: limit, Used: used}
	}

	weather, fellBack := s.weather.Lookup(ctx, req.Location)
	if fellBack {
		metrics.ObserveFallback("weather")
	}

	profile, err := s.store.GetProfile(ctx, req.UserID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	outfits := s.compose(ctx, ai.StylistRequest{
		EventType:       req.EventType,
		StylePreference: req.StylePreference,
		Weather:         weather,
		Wardrobe:        wardrobe,
		Profile:         profile,
	})

	recs := buildRecommendations(outfits, wardrobe, weather, req.EventType)
	used, err = s.store.CommitRecommendations(ctx, req.UserID, date, limit, recs)
	if errors.Is(err, store.ErrQuotaExceeded) {
		metrics.ObserveQuotaRejection(string(user.Tier))
		if used < limit {
			used = limit
		}
		return nil, &QuotaError{Limit: limit, Used: used}
	}
	if err != nil {
		return nil, fmt.Errorf("saving recommendations: %w", err)
	}

	metrics.ObserveGeneration(string(user.Tier), len(recs))
	ids := make([]int64, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.ID)
	}
	s.publisher.Publish(ctx, events.Event{
		Type:   events.RecommendationsGenerated,
		UserID: req.UserID,
		Data:   map[string]interface{}{"recommendationIds": ids, "date": date, "quotaUsed": used},
	})

	return &models.GenerateResponse{
		Recommendations: recs,
		WeatherContext:  weather,
		QuotaUsed:       used,
		QuotaLimit:      limit,
	}, nil
}

// compose asks the stylist and falls back to a single local outfit on any error.
func (s *Service) compose(ctx context.Context, req ai.StylistRequest) []ai.Outfit {
	if s.stylistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.stylistTimeout)
		defer cancel()
	}

	outfits, err := s.stylist.Recommend(ctx, req)
	if err != nil {
		s.logger.Warn("Stylist failed, using fallback outfit", "eventType", req.EventType, "error", err)
		metrics.ObserveFallback("stylist")
		return []ai.Outfit{FallbackOutfit(req.EventType, req.Weather, req.Wardrobe)}
	}
	return outfits
}

// buildRecommendations resolves outfit item ids against the wardrobe and
// embeds snapshots. Unknown ids are dropped.
func buildRecommendations(outfits []ai.Outfit, wardrobe []models.ClothingItem, weather models.WeatherContext, eventType string) []models.OutfitRecommendation {
	byID := make(map[int64]models.ClothingItem, len(wardrobe))
	for _, it := range wardrobe {
		byID[it.ID] = it
	}

	recs := make([]models.OutfitRecommendation, 0, len(outfits))
	for _, o := range outfits {
		items := models.ItemSnapshots{}
		seen := make(map[int64]bool)
		for _, id := range o.ItemIDs {
			it, ok := byID[id]
			if !ok || seen[id] {
				continue
			}
			seen[id] = true
			items = append(items, it.Snapshot())
		}

		w := weather
		rec := models.OutfitRecommendation{
			Name:           o.Name,
			Items:          items,
			ColorPalette:   append([]string{}, o.ColorPalette...),
			Justification:  o.Justification,
			WeatherContext: &w,
			IsFavorite:     false,
		}
		if eventType != "" {
			e := eventType
			rec.EventType = &e
		}
		recs = append(recs, rec)
	}
	return recs
}
