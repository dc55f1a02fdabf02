package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/wardrobe/internal/models"
	"github.com/illegalcall/wardrobe/internal/quota"
	"github.com/illegalcall/wardrobe/internal/store"
)

func (s *Server) handleGetProfile(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	profile, err := s.store.GetProfile(c.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Profile not found",
		})
	}
	if err != nil {
		return s.internalError(c, "Failed to fetch profile", err)
	}
	return c.JSON(profile)
}

// handleSaveProfile replaces the whole profile of the user.
func (s *Server) handleSaveProfile(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req models.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if fields := s.invalidFields(req); fields != nil {
		return validationError(c, fields)
	}

	profile := &models.UserProfile{
		UserID:          uid,
		Morphology:      req.Morphology,
		SkinTone:        req.SkinTone,
		PreferredStyles: req.PreferredStyles,
		Size:            req.Size,
		ColorPalette:    req.ColorPalette,
		Restrictions:    req.Restrictions,
	}
	if err := s.store.UpsertProfile(c.Context(), profile); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}
		return s.internalError(c, "Failed to save profile", err)
	}

	s.logger.Info("Profile saved", "userId", uid)
	return c.JSON(profile)
}

func (s *Server) handleQuota(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	user, err := s.store.GetUser(c.Context(), uid)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "User not found",
		})
	}
	if err != nil {
		return s.internalError(c, "Failed to fetch user", err)
	}

	used, err := s.store.GetDailyUsage(c.Context(), uid, models.UsageDate(s.now()))
	if err != nil {
		return s.internalError(c, "Failed to fetch daily usage", err)
	}
	return c.JSON(quota.Status(user.Tier, used))
}
