package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/wardrobe/internal/ai"
	"github.com/illegalcall/wardrobe/internal/models"
)

// handleAnalyzeClothing asks the vision classifier to describe a photo. The
// answer is already clamped to valid item fields.
func (s *Server) handleAnalyzeClothing(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	image := strings.TrimSpace(req.ImageDataURL)
	if image == "" {
		return validationError(c, map[string]string{"imageDataUrl": "is required"})
	}
	if !strings.HasPrefix(image, "data:") {
		return validationError(c, map[string]string{"imageDataUrl": "must be a data URL"})
	}

	analysis, err := s.classifier.Classify(c.Context(), image)
	if errors.Is(err, ai.ErrInvalidImage) {
		return validationError(c, map[string]string{"imageDataUrl": "must be a data URL"})
	}
	if err != nil {
		s.logger.Error("Error analyzing clothing", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to analyze clothing",
		})
	}
	return c.JSON(analysis)
}
