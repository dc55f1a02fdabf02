package models

import "time"

// Tier is the subscription class of a user. It decides the daily quota.
type Tier string

const (
	TierFreemium Tier = "freemium"
	TierPremium  Tier = "premium"
)

// ParseTier returns the tier named by s, defaulting to freemium for an empty value.
func ParseTier(s string) (Tier, bool) {
	switch Tier(s) {
	case "", TierFreemium:
		return TierFreemium, true
	case TierPremium:
		return TierPremium, true
	}
	return "", false
}

// User is an account. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Name      string    `json:"name" db:"name"`
	Tier      Tier      `json:"tier" db:"tier"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// PublicUser is the user shape returned by the auth endpoints.
type PublicUser struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Tier  Tier   `json:"tier"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Email: u.Email, Name: u.Name, Tier: u.Tier}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}
