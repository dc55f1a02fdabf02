package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/wardrobe/internal/models"
	"github.com/illegalcall/wardrobe/internal/recommendation"
	"github.com/illegalcall/wardrobe/internal/store"
)

func (s *Server) handleGenerateRecommendations(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if fields := s.invalidFields(req); fields != nil {
		return validationError(c, fields)
	}

	resp, err := s.recommender.Generate(c.Context(), recommendation.Request{
		UserID:          uid,
		EventType:       req.EventType,
		Location:        req.Location,
		StylePreference: req.StylePreference,
	})
	var quotaErr *recommendation.QuotaError
	switch {
	case err == nil:
		return c.JSON(resp)
	case errors.As(err, &quotaErr):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Daily recommendation limit reached",
			"limit": quotaErr.Limit,
			"used":  quotaErr.Used,
		})
	case errors.Is(err, recommendation.ErrEmptyWardrobe):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No clothing items found. Please add some items to your wardrobe first.",
		})
	case errors.Is(err, store.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	return s.internalError(c, "Failed to generate recommendations", err)
}

func (s *Server) handleListRecommendations(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	recs, err := s.store.ListRecommendations(c.Context(), uid)
	if err != nil {
		return s.internalError(c, "Failed to fetch recommendations", err)
	}
	return c.JSON(recs)
}

func (s *Server) handleToggleFavorite(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recommendation ID",
		})
	}

	favorite, err := s.store.ToggleFavorite(c.Context(), int64(id), uid)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Recommendation not found",
		})
	}
	if err != nil {
		return s.internalError(c, "Failed to toggle favorite", err)
	}
	return c.JSON(fiber.Map{"id": id, "isFavorite": favorite})
}
