package api

import (
	"errors"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	jwtv4 "github.com/golang-jwt/jwt/v4"

	"github.com/illegalcall/wardrobe/internal/models"
)

// errorHandler answers errors no handler mapped. Only Fiber's own errors keep
// their message; everything else is a generic 500.
func errorHandler(logger *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var e *fiber.Error
		if errors.As(err, &e) {
			return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
		}
		logger.Error("Unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
}

// jwtErrorHandler maps a missing credential, including a bare "Bearer"
// scheme, to 401 and a bad one to 403.
func jwtErrorHandler(c *fiber.Ctx, err error) error {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) >= len("Bearer") && strings.EqualFold(header[:len("Bearer")], "Bearer") {
		header = strings.TrimSpace(header[len("Bearer"):])
	}
	if header == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Access token required",
		})
	}
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "Invalid token",
	})
}

var errInvalidClaims = errors.New("invalid token claims")

// userID reads the user id claim placed in Locals by the JWT middleware.
func userID(c *fiber.Ctx) (int64, error) {
	token, ok := c.Locals("user").(*jwtv4.Token)
	if !ok {
		return 0, errInvalidClaims
	}
	claims, ok := token.Claims.(jwtv4.MapClaims)
	if !ok {
		return 0, errInvalidClaims
	}
	id, ok := claims["userId"].(float64)
	if !ok || id <= 0 {
		return 0, errInvalidClaims
	}
	return int64(id), nil
}

func invalidToken(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "Invalid token",
	})
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		_, ok := models.ParseCategory(fl.Field().String())
		return ok
	})
	return v
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "hexcolor":
		return "must be a hex color"
	case "category":
		return "must be one of: tops, bottoms, shoes, accessories"
	}
	return "is invalid"
}

// validationError writes a 400 with one message per invalid field.
func validationError(c *fiber.Ctx, fields map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "Validation error",
		"fields": fields,
	})
}

// invalidFields validates req and returns one message per invalid field, or
// nil when req is valid.
func (s *Server) invalidFields(req interface{}) map[string]string {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": "is invalid"}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return fields
}

func (s *Server) internalError(c *fiber.Ctx, msg string, err error) error {
	s.logger.Error(msg, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Internal server error",
	})
}
