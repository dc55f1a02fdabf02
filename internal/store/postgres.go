package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/illegalcall/wardrobe/internal/models"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// PostgresStore implements Store on PostgreSQL through sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wraps an open connection. The schema is created by
// database.Clients.CreateTables.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.Tier == "" {
		user.Tier = models.TierFreemium
	}
	err := s.db.QueryRowxContext(ctx,
		"INSERT INTO users (email, password, name, tier) VALUES ($1, $2, $3, $4) RETURNING id, created_at",
		user.Email, user.Password, user.Name, user.Tier,
	).Scan(&user.ID, &user.CreatedAt)
	if pqCode(err) == pqUniqueViolation {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("inserting user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, email, password, name, tier, created_at FROM users WHERE id = $1", id)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, "SELECT id, email, password, name, tier, created_at FROM users WHERE email = $1", email)
}

func (s *PostgresStore) getUser(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	return &user, nil
}

func (s *PostgresStore) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.GetContext(ctx, &profile, `
		SELECT id, user_id, morphology, skin_tone, preferred_styles, size, color_palette, restrictions
		FROM user_profiles
		WHERE user_id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}
	return &profile, nil
}

func (s *PostgresStore) UpsertProfile(ctx context.Context, profile *models.UserProfile) error {
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO user_profiles (user_id, morphology, skin_tone, preferred_styles, size, color_palette, restrictions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			morphology = EXCLUDED.morphology,
			skin_tone = EXCLUDED.skin_tone,
			preferred_styles = EXCLUDED.preferred_styles,
			size = EXCLUDED.size,
			color_palette = EXCLUDED.color_palette,
			restrictions = EXCLUDED.restrictions
		RETURNING id`,
		profile.UserID, profile.Morphology, profile.SkinTone, profile.PreferredStyles,
		profile.Size, profile.ColorPalette, profile.Restrictions,
	).Scan(&profile.ID)
	if pqCode(err) == pqForeignKeyViolation {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("upserting profile: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListClothingItems(ctx context.Context, userID int64) ([]models.ClothingItem, error) {
	items := []models.ClothingItem{}
	err := s.db.SelectContext(ctx, &items, `
		SELECT id, user_id, name, category, color, material, formality, image_path, created_at
		FROM clothing_items
		WHERE user_id = $1
		ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing clothing items: %w", err)
	}
	return items, nil
}

func (s *PostgresStore) CreateClothingItem(ctx context.Context, item *models.ClothingItem) error {
	if item.Formality == 0 {
		item.Formality = models.DefaultFormality
	}
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO clothing_items (user_id, name, category, color, material, formality, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		item.UserID, item.Name, item.Category, item.Color, item.Material, item.Formality, item.ImagePath,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting clothing item: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteClothingItem(ctx context.Context, id, userID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM clothing_items WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return fmt.Errorf("deleting clothing item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting clothing item: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListRecommendations(ctx context.Context, userID int64) ([]models.OutfitRecommendation, error) {
	recs := []models.OutfitRecommendation{}
	err := s.db.SelectContext(ctx, &recs, `
		SELECT id, user_id, name, items, color_palette, justification, weather_context, event_type, is_favorite, created_at
		FROM outfit_recommendations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("listing recommendations: %w", err)
	}
	return recs, nil
}

func (s *PostgresStore) ToggleFavorite(ctx context.Context, id, userID int64) (bool, error) {
	var favorite bool
	err := s.db.QueryRowxContext(ctx,
		"UPDATE outfit_recommendations SET is_favorite = NOT is_favorite WHERE id = $1 AND user_id = $2 RETURNING is_favorite",
		id, userID,
	).Scan(&favorite)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("toggling favorite: %w", err)
	}
	return favorite, nil
}

func (s *PostgresStore) GetDailyUsage(ctx context.Context, userID int64, date string) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT recommendations_count FROM daily_usage WHERE user_id = $1 AND date = $2", userID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying daily usage: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CommitRecommendations(ctx context.Context, userID int64, date string, limit int, recs []models.OutfitRecommendation) (int, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// The conditional update is the quota guard: no row comes back once the
	// counter has reached the limit.
	var used int
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO daily_usage (user_id, date, recommendations_count)
		VALUES ($1, $2, 1)
		ON CONFLICT (user_id, date) DO UPDATE
			SET recommendations_count = daily_usage.recommendations_count + 1
			WHERE daily_usage.recommendations_count < $3
		RETURNING recommendations_count`,
		userID, date, limit,
	).Scan(&used)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrQuotaExceeded
	}
	if err != nil {
		return 0, fmt.Errorf("incrementing daily usage: %w", err)
	}

	for i := range recs {
		recs[i].UserID = userID
		err := tx.QueryRowxContext(ctx, `
			INSERT INTO outfit_recommendations
				(user_id, name, items, color_palette, justification, weather_context, event_type, is_favorite)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id, created_at`,
			userID, recs[i].Name, recs[i].Items, recs[i].ColorPalette, recs[i].Justification,
			recs[i].WeatherContext, recs[i].EventType, recs[i].IsFavorite,
		).Scan(&recs[i].ID, &recs[i].CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing recommendations: %w", err)
	}
	return used, nil
}
