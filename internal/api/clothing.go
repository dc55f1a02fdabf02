package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/illegalcall/wardrobe/internal/events"
	"github.com/illegalcall/wardrobe/internal/models"
	"github.com/illegalcall/wardrobe/internal/store"
)

func (s *Server) handleListClothing(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	items, err := s.store.ListClothingItems(c.Context(), uid)
	if err != nil {
		return s.internalError(c, "Failed to fetch clothing items", err)
	}
	return c.JSON(items)
}

// handleCreateClothing accepts multipart form fields with an optional
// "image" file, or a JSON body without image.
func (s *Server) handleCreateClothing(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	var req models.ClothingItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	multipart := strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
	if multipart {
		if raw := strings.TrimSpace(c.FormValue("formality")); raw != "" {
			f, err := strconv.Atoi(raw)
			if err != nil {
				return validationError(c, map[string]string{"formality": "must be an integer"})
			}
			req.Formality = &f
		}
	}
	if fields := s.invalidFields(req); fields != nil {
		return validationError(c, fields)
	}

	category, _ := models.ParseCategory(req.Category)
	item := &models.ClothingItem{
		UserID:    uid,
		Name:      req.Name,
		Category:  category,
		Color:     req.Color,
		Material:  req.Material,
		Formality: models.DefaultFormality,
	}
	if req.Formality != nil {
		item.Formality = *req.Formality
	}

	if multipart {
		path, err := s.saveImage(c, uid)
		if err != nil {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				return validationError(c, map[string]string{"image": fe.Message})
			}
			return s.internalError(c, "Failed to store image", err)
		}
		item.ImagePath = path
	}

	if err := s.store.CreateClothingItem(c.Context(), item); err != nil {
		if item.ImagePath != nil {
			if derr := s.storage.Delete(context.Background(), *item.ImagePath); derr != nil {
				s.logger.Warn("Failed to remove orphaned image", "path", *item.ImagePath, "error", derr)
			}
		}
		return s.internalError(c, "Failed to create clothing item", err)
	}

	s.publisher.Publish(c.Context(), events.Event{
		Type:   events.ClothingItemCreated,
		UserID: uid,
		Data:   item,
	})
	return c.JSON(item)
}

// saveImage stores the optional "image" part. It returns nil when no image
// was sent and a *fiber.Error for images the client must fix.
func (s *Server) saveImage(c *fiber.Ctx, uid int64) (*string, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, fasthttp.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading image part: %w", err)
	}

	if fh.Size > s.cfg.Storage.MaxSize {
		return nil, fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("must be at most %d bytes", s.cfg.Storage.MaxSize))
	}
	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "must be an image")
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening image part: %w", err)
	}
	defer f.Close()

	path, err := s.storage.Save(c.Context(), uid, fh.Filename, contentType, f)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// handleDeleteClothing removes an item of the user. Items of other users
// answer 404. Stored images are kept for recommendation snapshots.
func (s *Server) handleDeleteClothing(c *fiber.Ctx) error {
	uid, err := userID(c)
	if err != nil {
		return invalidToken(c)
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid item ID",
		})
	}

	if err := s.store.DeleteClothingItem(c.Context(), int64(id), uid); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Item not found",
			})
		}
		return s.internalError(c, "Failed to delete clothing item", err)
	}

	s.publisher.Publish(c.Context(), events.Event{
		Type:   events.ClothingItemDeleted,
		UserID: uid,
		Data:   map[string]int64{"itemId": int64(id)},
	})
	return c.JSON(fiber.Map{"message": "Item deleted successfully"})
}
