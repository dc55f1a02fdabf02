package models

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name" validate:"required"`
	Tier     string `json:"tier" validate:"omitempty,oneof=freemium premium"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileRequest is the body of POST /user/profile. The profile is replaced wholesale.
type ProfileRequest struct {
	Morphology      string   `json:"morphology" validate:"required"`
	SkinTone        string   `json:"skinTone" validate:"required"`
	PreferredStyles []string `json:"preferredStyles" validate:"required,dive,required"`
	Size            string   `json:"size" validate:"required"`
	ColorPalette    []string `json:"colorPalette" validate:"required,dive,hexcolor"`
	Restrictions    []string `json:"restrictions" validate:"required"`
}

// ClothingItemRequest is the form part of POST /user/clothing. JSON bodies
// are accepted as well. A nil Formality means the default level.
type ClothingItemRequest struct {
	Name      string `json:"name" form:"name" validate:"required"`
	Category  string `json:"category" form:"category" validate:"required,category"`
	Color     string `json:"color" form:"color" validate:"required,hexcolor"`
	Material  string `json:"material" form:"material" validate:"required"`
	Formality *int   `json:"formality" form:"-" validate:"omitempty,min=1,max=5"`
}

// GenerateRequest is the body of POST /recommendations.
type GenerateRequest struct {
	EventType       string `json:"eventType" validate:"required"`
	Location        string `json:"location" validate:"required"`
	StylePreference string `json:"stylePreference"`
}

// AnalyzeRequest is the body of POST /analyze-clothing. Only data URLs are
// accepted.
type AnalyzeRequest struct {
	ImageDataURL string `json:"imageDataUrl"`
}

// GenerateResponse is returned by POST /recommendations.
type GenerateResponse struct {
	Recommendations []OutfitRecommendation `json:"recommendations"`
	WeatherContext  WeatherContext         `json:"weatherContext"`
	QuotaUsed       int                    `json:"quotaUsed"`
	QuotaLimit      int                    `json:"quotaLimit"`
}

// QuotaStatus is returned by GET /user/quota.
type QuotaStatus struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Tier      Tier `json:"tier"`
}
