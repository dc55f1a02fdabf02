package models

import (
	"time"

	"github.com/lib/pq"
)

// OutfitRecommendation is a persisted outfit. Items are snapshots taken at
// generation time and never follow later edits of the wardrobe.
type OutfitRecommendation struct {
	ID             int64           `json:"id" db:"id"`
	UserID         int64           `json:"userId" db:"user_id"`
	Name           string          `json:"name" db:"name"`
	Items          ItemSnapshots   `json:"items" db:"items"`
	ColorPalette   pq.StringArray  `json:"colorPalette" db:"color_palette"`
	Justification  string          `json:"justification" db:"justification"`
	WeatherContext *WeatherContext `json:"weatherContext" db:"weather_context"`
	EventType      *string         `json:"eventType" db:"event_type"`
	IsFavorite     bool            `json:"isFavorite" db:"is_favorite"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// DailyUsage counts generation calls of one user on one UTC calendar day.
type DailyUsage struct {
	ID                   int64  `json:"id" db:"id"`
	UserID               int64  `json:"userId" db:"user_id"`
	Date                 string `json:"date" db:"date"`
	RecommendationsCount int    `json:"recommendationsCount" db:"recommendations_count"`
}

// UsageDate formats t as the key of its usage day.
func UsageDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// ClothingAnalysis is what the vision classifier reports for a garment photo.
type ClothingAnalysis struct {
	Category  Category `json:"category"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	Material  string   `json:"material"`
	Formality int      `json:"formality"`
}
