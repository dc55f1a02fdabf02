package api

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// handleWeather always answers 200. Upstream failures yield the fallback body.
func (s *Server) handleWeather(c *fiber.Ctx) error {
	location, err := url.PathUnescape(c.Params("location"))
	if err != nil || strings.TrimSpace(location) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Location is required",
		})
	}

	w, _ := s.weather.Lookup(c.Context(), strings.Clone(strings.TrimSpace(location)))
	return c.JSON(w)
}
