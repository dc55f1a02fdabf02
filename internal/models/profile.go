package models

import "github.com/lib/pq"

// UserProfile holds the style profile of a user. There is at most one per user.
type UserProfile struct {
	ID              int64          `json:"id" db:"id"`
	UserID          int64          `json:"userId" db:"user_id"`
	Morphology      string         `json:"morphology" db:"morphology"`
	SkinTone        string         `json:"skinTone" db:"skin_tone"`
	PreferredStyles pq.StringArray `json:"preferredStyles" db:"preferred_styles"`
	Size            string         `json:"size" db:"size"`
	ColorPalette    pq.StringArray `json:"colorPalette" db:"color_palette"`
	Restrictions    pq.StringArray `json:"restrictions" db:"restrictions"`
}
