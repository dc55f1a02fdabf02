package store

import (
	"context"
	"fmt"

	"github.com/illegalcall/wardrobe/internal/models"
)

// DemoEmail is the login of the seeded demo account.
const DemoEmail = "demo@ankhara.com"

// SeedDemo creates the demo account with a profile and a small wardrobe.
// passwordHash must already be hashed. Seeding an existing account is a no-op.
func SeedDemo(ctx context.Context, s Store, passwordHash string) error {
	if _, err := s.GetUserByEmail(ctx, DemoEmail); err == nil {
		return nil
	}

	user := &models.User{
		Email:    DemoEmail,
		Password: passwordHash,
		Name:     "Alex Johnson",
		Tier:     models.TierPremium,
	}
	if err := s.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("seeding demo user: %w", err)
	}

	profile := &models.UserProfile{
		UserID:          user.ID,
		Morphology:      "inverted triangle",
		SkinTone:        "#FFDAB9",
		PreferredStyles: []string{"elegant", "casual"},
		Size:            "M",
		ColorPalette:    []string{"#FF5E5B", "#3F88C5", "#F49D37"},
		Restrictions:    []string{"no fluorescent prints"},
	}
	if err := s.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("seeding demo profile: %w", err)
	}

	items := []models.ClothingItem{
		{Name: "White T-shirt", Category: models.CategoryTops, Color: "#FFFFFF", Material: "cotton", Formality: 2},
		{Name: "Blue jeans", Category: models.CategoryBottoms, Color: "#4682B4", Material: "denim", Formality: 2},
		{Name: "White sneakers", Category: models.CategoryShoes, Color: "#FFFFFF", Material: "leather", Formality: 2},
		{Name: "Blue shirt", Category: models.CategoryTops, Color: "#3F88C5", Material: "cotton", Formality: 4},
		{Name: "Chino trousers", Category: models.CategoryBottoms, Color: "#8B4513", Material: "cotton", Formality: 4},
		{Name: "Leather shoes", Category: models.CategoryShoes, Color: "#000000", Material: "leather", Formality: 5},
		{Name: "Cashmere sweater", Category: models.CategoryTops, Color: "#FF5E5B", Material: "cashmere", Formality: 4},
		{Name: "Black skirt", Category: models.CategoryBottoms, Color: "#000000", Material: "polyester", Formality: 4},
	}
	for i := range items {
		items[i].UserID = user.ID
		if err := s.CreateClothingItem(ctx, &items[i]); err != nil {
			return fmt.Errorf("seeding demo wardrobe: %w", err)
		}
	}
	return nil
}
