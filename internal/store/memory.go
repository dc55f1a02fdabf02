package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/illegalcall/wardrobe/internal/models"
)

type usageKey struct {
	userID int64
	date   string
}

// MemoryStore keeps everything in process maps. All entity types draw ids
// from one shared counter.
type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	users   map[int64]models.User
	profile map[int64]models.UserProfile
	items   map[int64]models.ClothingItem
	recs    map[int64]models.OutfitRecommendation
	usage   map[usageKey]models.DailyUsage

	now func() time.Time
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		users:   make(map[int64]models.User),
		profile: make(map[int64]models.UserProfile),
		items:   make(map[int64]models.ClothingItem),
		recs:    make(map[int64]models.OutfitRecommendation),
		usage:   make(map[usageKey]models.DailyUsage),
		now:     time.Now,
	}
}

func (s *MemoryStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	if user.Tier == "" {
		user.Tier = models.TierFreemium
	}
	user.ID = s.id()
	user.CreatedAt = s.now()
	s.users[user.ID] = *user
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.profile {
		if p.UserID == userID {
			p = copyProfile(p)
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[profile.UserID]; !ok {
		return ErrNotFound
	}
	profile.ID = 0
	for id, p := range s.profile {
		if p.UserID == profile.UserID {
			profile.ID = id
			break
		}
	}
	if profile.ID == 0 {
		profile.ID = s.id()
	}
	s.profile[profile.ID] = copyProfile(*profile)
	return nil
}

func (s *MemoryStore) ListClothingItems(ctx context.Context, userID int64) ([]models.ClothingItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.ClothingItem, 0)
	for _, it := range s.items {
		if it.UserID == userID {
			items = append(items, it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *MemoryStore) CreateClothingItem(ctx context.Context, item *models.ClothingItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.Formality == 0 {
		item.Formality = models.DefaultFormality
	}
	item.ID = s.id()
	item.CreatedAt = s.now()
	s.items[item.ID] = *item
	return nil
}

func (s *MemoryStore) DeleteClothingItem(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	it, ok := s.items[id]
	if !ok || it.UserID != userID {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) ListRecommendations(ctx context.Context, userID int64) ([]models.OutfitRecommendation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs := make([]models.OutfitRecommendation, 0)
	for _, r := range s.recs {
		if r.UserID == userID {
			recs = append(recs, r)
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

func (s *MemoryStore) ToggleFavorite(ctx context.Context, id, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recs[id]
	if !ok || r.UserID != userID {
		return false, ErrNotFound
	}
	r.IsFavorite = !r.IsFavorite
	s.recs[id] = r
	return r.IsFavorite, nil
}

func (s *MemoryStore) GetDailyUsage(ctx context.Context, userID int64, date string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.usage[usageKey{userID, date}].RecommendationsCount, nil
}

func (s *MemoryStore) CommitRecommendations(ctx context.Context, userID int64, date string, limit int, recs []models.OutfitRecommendation) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := usageKey{userID, date}
	u, ok := s.usage[key]
	if ok && u.RecommendationsCount >= limit {
		return u.RecommendationsCount, ErrQuotaExceeded
	}
	if !ok {
		u = models.DailyUsage{ID: s.id(), UserID: userID, Date: date}
	}
	u.RecommendationsCount++
	s.usage[key] = u

	now := s.now()
	for i := range recs {
		recs[i].ID = s.id()
		recs[i].UserID = userID
		recs[i].CreatedAt = now
		stored := recs[i]
		stored.Items = append(models.ItemSnapshots{}, recs[i].Items...)
		stored.ColorPalette = append(pq.StringArray{}, recs[i].ColorPalette...)
		s.recs[stored.ID] = stored
	}
	return u.RecommendationsCount, nil
}

func copyProfile(p models.UserProfile) models.UserProfile {
	p.PreferredStyles = append(pq.StringArray{}, p.PreferredStyles...)
	p.ColorPalette = append(pq.StringArray{}, p.ColorPalette...)
	p.Restrictions = append(pq.StringArray{}, p.Restrictions...)
	return p
}
