package recommendation

import (
	"fmt"

	"github.com/illegalcall/wardrobe/internal/ai"
	"github.com/illegalcall/wardrobe/internal/models"
)

const (
	coldBelow = 15.0
	warmAbove = 20.0
)

var fallbackCategories = []models.Category{models.CategoryTops, models.CategoryBottoms, models.CategoryShoes}

// FallbackOutfit builds one outfit from the first item of each of tops,
// bottoms and shoes. The wardrobe is expected in creation order.
func FallbackOutfit(eventType string, weather models.WeatherContext, wardrobe []models.ClothingItem) ai.Outfit {
	outfit := ai.Outfit{ColorPalette: []string{}}
	for _, c := range fallbackCategories {
		for _, it := range wardrobe {
			if it.Category == c {
				outfit.ItemIDs = append(outfit.ItemIDs, it.ID)
				outfit.ColorPalette = append(outfit.ColorPalette, it.Color)
				break
			}
		}
	}
	if len(outfit.ColorPalette) > 3 {
		outfit.ColorPalette = outfit.ColorPalette[:3]
	}

	conditions := weather.Conditions
	if conditions == "" {
		conditions = "current weather"
	}
	outfit.Name = fmt.Sprintf("%s outfit for %s", eventType, conditions)

	band := "."
	switch {
	case weather.Temperature < coldBelow:
		band = ". Layer up for warmth!"
	case weather.Temperature > warmAbove:
		band = ". Light and breathable pieces!"
	}
	outfit.Justification = fmt.Sprintf("Perfect %s look combining comfort and style%s Ideal for %g°C %s.",
		eventType, band, weather.Temperature, conditions)
	return outfit
}
