// Package store persists users, profiles, wardrobe items, recommendations and
// daily usage counters.
package store

import (
	"context"
	"errors"

	"github.com/illegalcall/wardrobe/internal/models"
)

var (
	// ErrNotFound is returned for missing rows and for rows owned by another
	// user, so callers cannot probe for existence.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already exists")
	// ErrQuotaExceeded is returned by CommitRecommendations when the day's
	// counter already reached the limit.
	ErrQuotaExceeded = errors.New("daily quota exceeded")
)

// Store is the persistence contract shared by the in-memory and Postgres backends.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
	// UpsertProfile creates the user's profile or overwrites every field of the existing one.
	UpsertProfile(ctx context.Context, profile *models.UserProfile) error

	// ListClothingItems returns the user's items in creation order.
	ListClothingItems(ctx context.Context, userID int64) ([]models.ClothingItem, error)
	CreateClothingItem(ctx context.Context, item *models.ClothingItem) error
	DeleteClothingItem(ctx context.Context, id, userID int64) error

	// ListRecommendations returns the user's recommendations newest first.
	ListRecommendations(ctx context.Context, userID int64) ([]models.OutfitRecommendation, error)
	// ToggleFavorite flips is_favorite and returns the new value.
	ToggleFavorite(ctx context.Context, id, userID int64) (bool, error)

	// GetDailyUsage returns the number of generation calls on date, 0 when none.
	GetDailyUsage(ctx context.Context, userID int64, date string) (int, error)
	// CommitRecommendations increments the usage counter of date by one and
	// inserts recs, atomically. When the counter is already at limit nothing
	// is written and ErrQuotaExceeded is returned. IDs and creation times are
	// filled into recs. The returned value is the counter after the increment.
	CommitRecommendations(ctx context.Context, userID int64, date string, limit int, recs []models.OutfitRecommendation) (int, error)
}
