package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Category is one of the four wardrobe sections.
type Category string

const (
	CategoryTops        Category = "tops"
	CategoryBottoms     Category = "bottoms"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// DefaultFormality applies when an item is created without a formality level.
const DefaultFormality = 3

var categoryAliases = map[string]Category{
	"tops":        CategoryTops,
	"bottoms":     CategoryBottoms,
	"shoes":       CategoryShoes,
	"accessories": CategoryAccessories,
	"hauts":       CategoryTops,
	"bas":         CategoryBottoms,
	"chaussures":  CategoryShoes,
	"accessoires": CategoryAccessories,
}

// ParseCategory maps a category tag (English or the French tags used by the
// mobile client) onto the enum.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(s))]
	return c, ok
}

// ClothingItem is a piece of the user's wardrobe.
type ClothingItem struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"userId" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Category  Category  `json:"category" db:"category"`
	Color     string    `json:"color" db:"color"`
	Material  string    `json:"material" db:"material"`
	Formality int       `json:"formality" db:"formality"`
	ImagePath *string   `json:"imagePath" db:"image_path"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Snapshot returns a detached copy of the item for embedding in a recommendation.
func (i ClothingItem) Snapshot() ClothingItem {
	s := i
	if i.ImagePath != nil {
		p := *i.ImagePath
		s.ImagePath = &p
	}
	return s
}

// ItemSnapshots is stored as a jsonb column.
type ItemSnapshots []ClothingItem

func (s ItemSnapshots) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

func (s *ItemSnapshots) Scan(src interface{}) error {
	return scanJSON(src, s)
}

func scanJSON(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	}
	return errors.New("unsupported json column type")
}
