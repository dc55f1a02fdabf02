package api

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/illegalcall/wardrobe/internal/auth"
	"github.com/illegalcall/wardrobe/internal/events"
	"github.com/illegalcall/wardrobe/internal/models"
	"github.com/illegalcall/wardrobe/internal/store"
)

func (s *Server) handleRegister(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.Email = strings.TrimSpace(req.Email)
	if fields := s.invalidFields(req); fields != nil {
		return validationError(c, fields)
	}
	tier, _ := models.ParseTier(req.Tier)

	if _, err := s.store.GetUserByEmail(c.Context(), req.Email); err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "User already exists",
		})
	} else if !errors.Is(err, store.ErrNotFound) {
		return s.internalError(c, "Failed to look up user", err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return s.internalError(c, "Failed to hash password", err)
	}

	user := &models.User{Email: req.Email, Password: hash, Name: req.Name, Tier: tier}
	if err := s.store.CreateUser(c.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "User already exists",
			})
		}
		return s.internalError(c, "Failed to create user", err)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return s.internalError(c, "Failed to generate token", err)
	}

	s.logger.Info("User registered", "userId", user.ID, "tier", user.Tier)
	s.publisher.Publish(c.Context(), events.Event{
		Type:   events.UserRegistered,
		UserID: user.ID,
		Data:   user.Public(),
	})

	return c.JSON(models.AuthResponse{User: user.Public(), Token: token})
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.Email = strings.TrimSpace(req.Email)
	if fields := s.invalidFields(req); fields != nil {
		return validationError(c, fields)
	}

	// Log authentication attempt
	s.logger.Info("Authentication attempt", "email", req.Email)

	user, err := s.store.GetUserByEmail(c.Context(), req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}
	if err != nil {
		return s.internalError(c, "Failed to look up user", err)
	}
	if err := auth.CheckPassword(user.Password, req.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid credentials",
		})
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return s.internalError(c, "Failed to generate token", err)
	}

	s.logger.Info("User successfully authenticated", "userId", user.ID)

	return c.JSON(models.AuthResponse{User: user.Public(), Token: token})
}
