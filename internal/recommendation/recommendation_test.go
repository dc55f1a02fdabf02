package recommendation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illegalcall/wardrobe/internal/ai"
	"github.com/illegalcall/wardrobe/internal/events"
	"github.com/illegalcall/wardrobe/internal/models"
	"github.com/illegalcall/wardrobe/internal/store"
	"github.com/illegalcall/wardrobe/internal/weather"
)

type stubWeather struct {
	w        models.WeatherContext
	fellBack bool
}

func (s stubWeather) Lookup(ctx context.Context, location string) (models.WeatherContext, bool) {
	w := s.w
	w.Location = location
	return w, s.fellBack
}

type stubStylist struct {
	outfits []ai.Outfit
	err     error
	got     ai.StylistRequest
}

func (s *stubStylist) Recommend(ctx context.Context, req ai.StylistRequest) ([]ai.Outfit, error) {
	s.got = req
	return s.outfits, s.err
}

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) {
	p.events = append(p.events, e.Type)
}

type fixture struct {
	store   *store.MemoryStore
	user    *models.User
	items   []models.ClothingItem
	stylist *stubStylist
	svc     *Service
}

func newFixture(t *testing.T, tier models.Tier, w models.WeatherContext, stylist *stubStylist) *fixture {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()

	user := &models.User{Email: "a@example.com", Password: "hash", Name: "Ann", Tier: tier}
	require.NoError(t, s.CreateUser(ctx, user))

	items := []models.ClothingItem{
		{Name: "Tee", Category: models.CategoryTops, Color: "#FFFFFF", Material: "cotton"},
		{Name: "Jeans", Category: models.CategoryBottoms, Color: "#4682B4", Material: "denim"},
		{Name: "Sneakers", Category: models.CategoryShoes, Color: "#000000", Material: "leather"},
	}
	for i := range items {
		items[i].UserID = user.ID
		require.NoError(t, s.CreateClothingItem(ctx, &items[i]))
	}

	svc := NewService(s, stubWeather{w: w}, stylist, time.Second, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC) }
	return &fixture{store: s, user: user, items: items, stylist: stylist, svc: svc}
}

func TestGenerateFallsBackWhenStylistFails(t *testing.T) {
	f := newFixture(t, models.TierFreemium,
		models.WeatherContext{Temperature: 12, Conditions: "rain"},
		&stubStylist{err: errors.New("upstream down")})

	resp, err := f.svc.Generate(context.Background(), Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 1)
	rec := resp.Recommendations[0]
	require.Len(t, rec.Items, 3)
	assert.Equal(t, f.items[0].ID, rec.Items[0].ID)
	assert.Equal(t, f.items[1].ID, rec.Items[1].ID)
	assert.Equal(t, f.items[2].ID, rec.Items[2].ID)
	assert.Equal(t, []string{"#FFFFFF", "#4682B4", "#000000"}, []string(rec.ColorPalette))
	assert.Equal(t, "work outfit for rain", rec.Name)
	assert.Contains(t, rec.Justification, "Layer up for warmth!")
	assert.False(t, rec.IsFavorite)
	require.NotNil(t, rec.EventType)
	assert.Equal(t, "work", *rec.EventType)
	require.NotNil(t, rec.WeatherContext)
	assert.Equal(t, "Paris", rec.WeatherContext.Location)

	assert.Equal(t, 1, resp.QuotaUsed)
	assert.Equal(t, 3, resp.QuotaLimit)

	used, err := f.store.GetDailyUsage(context.Background(), f.user.ID, "2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, 1, used)
}

func TestGenerateUsesStylistOutfits(t *testing.T) {
	stylist := &stubStylist{}
	f := newFixture(t, models.TierPremium, models.WeatherContext{Temperature: 25, Conditions: "sunny"}, stylist)
	stylist.outfits = []ai.Outfit{
		{Name: "Look one", ItemIDs: []int64{f.items[1].ID, 999, f.items[1].ID}, ColorPalette: []string{"#4682B4"}, Justification: "Blue."},
		{Name: "Look two", ItemIDs: []int64{f.items[0].ID, f.items[2].ID}, Justification: "Mono."},
	}

	resp, err := f.svc.Generate(context.Background(), Request{UserID: f.user.ID, EventType: "party", Location: "Nice", StylePreference: "bold"})
	require.NoError(t, err)

	require.Len(t, resp.Recommendations, 2)
	require.Len(t, resp.Recommendations[0].Items, 1)
	assert.Equal(t, "Jeans", resp.Recommendations[0].Items[0].Name)
	assert.Len(t, resp.Recommendations[1].Items, 2)
	assert.Equal(t, 1, resp.QuotaUsed)
	assert.Equal(t, 8, resp.QuotaLimit)

	assert.Equal(t, "bold", stylist.got.StylePreference)
	assert.Len(t, stylist.got.Wardrobe, 3)
	assert.Nil(t, stylist.got.Profile)
}

func TestGenerateZeroOutfitsStillConsumesQuota(t *testing.T) {
	f := newFixture(t, models.TierFreemium, models.WeatherContext{Temperature: 18}, &stubStylist{outfits: []ai.Outfit{}})

	resp, err := f.svc.Generate(context.Background(), Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
	require.NoError(t, err)
	assert.Empty(t, resp.Recommendations)
	assert.NotNil(t, resp.Recommendations)
	assert.Equal(t, 1, resp.QuotaUsed)
}

func TestGenerateRejectsWhenQuotaExhausted(t *testing.T) {
	f := newFixture(t, models.TierFreemium, models.WeatherContext{Temperature: 18}, &stubStylist{err: errors.New("down")})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Generate(ctx, Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
		require.NoError(t, err)
	}

	_, err := f.svc.Generate(ctx, Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
	var qe *QuotaError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 3, qe.Limit)
	assert.Equal(t, 3, qe.Used)

	recs, err := f.store.ListRecommendations(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Len(t, recs, 3)
}

func TestGenerateQuotaResetsOnNextUTCDay(t *testing.T) {
	f := newFixture(t, models.TierFreemium, models.WeatherContext{Temperature: 18}, &stubStylist{outfits: []ai.Outfit{}})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.Generate(ctx, Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
		require.NoError(t, err)
	}
	f.svc.now = func() time.Time { return time.Date(2026, 10, 19, 0, 0, 1, 0, time.UTC) }

	resp, err := f.svc.Generate(ctx, Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.QuotaUsed)
}

func TestGenerateEmptyWardrobe(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	user := &models.User{Email: "b@example.com", Password: "hash", Name: "Bo"}
	require.NoError(t, s.CreateUser(ctx, user))

	svc := NewService(s, stubWeather{}, &stubStylist{}, time.Second, nil, nil)
	_, err := svc.Generate(ctx, Request{UserID: user.ID, EventType: "work", Location: "Paris"})
	assert.ErrorIs(t, err, ErrEmptyWardrobe)

	used, _ := s.GetDailyUsage(ctx, user.ID, models.UsageDate(time.Now()))
	assert.Equal(t, 0, used)
}

func TestGenerateSnapshotSurvivesItemDeletion(t *testing.T) {
	f := newFixture(t, models.TierFreemium, models.WeatherContext{Temperature: 18}, &stubStylist{err: errors.New("down")})
	ctx := context.Background()

	_, err := f.svc.Generate(ctx, Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
	require.NoError(t, err)
	require.NoError(t, f.store.DeleteClothingItem(ctx, f.items[0].ID, f.user.ID))

	recs, err := f.store.ListRecommendations(ctx, f.user.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Tee", recs[0].Items[0].Name)
}

func TestGenerateWithRealWeatherFallback(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, models.TierFreemium, models.WeatherContext{}, &stubStylist{err: errors.New("down")})
	f.svc.weather = weather.NewService(weather.NewWeatherstackProvider("", "http://unused"), time.Second, nil)

	resp, err := f.svc.Generate(ctx, Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, 20.0, resp.WeatherContext.Temperature)
	assert.Equal(t, "partly cloudy", resp.WeatherContext.Conditions)
	assert.Equal(t, "work outfit for partly cloudy", resp.Recommendations[0].Name)
}

func TestGeneratePublishesEvent(t *testing.T) {
	f := newFixture(t, models.TierFreemium, models.WeatherContext{Temperature: 18}, &stubStylist{outfits: []ai.Outfit{}})
	pub := &recordingPublisher{}
	f.svc.publisher = pub

	_, err := f.svc.Generate(context.Background(), Request{UserID: f.user.ID, EventType: "work", Location: "Paris"})
	require.NoError(t, err)
	assert.Equal(t, []string{"recommendations.generated"}, pub.events)
}
