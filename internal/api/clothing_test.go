package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illegalcall/wardrobe/internal/events"
	"github.com/illegalcall/wardrobe/internal/models"
)

type imagePart struct {
	filename    string
	contentType string
	data        []byte
}

func (e *testEnv) postMultipart(t *testing.T, token string, fields map[string]string, image *imagePart) *http.Response {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, image.filename))
		h.Set("Content-Type", image.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/user/clothing", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := e.server.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (e *testEnv) addItem(t *testing.T, token, name, category, color string) models.ClothingItem {
	t.Helper()
	resp := e.do(t, "POST", "/api/user/clothing", map[string]interface{}{
		"name":      name,
		"category":  category,
		"color":     color,
		"material":  "cotton",
		"formality": 2,
	}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var item models.ClothingItem
	decode(t, resp, &item)
	return item
}

func TestCreateClothingJSON(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "jane@example.com", models.TierFreemium)

	resp := env.do(t, "POST", "/api/user/clothing", map[string]interface{}{
		"name":     "Wool coat",
		"category": "hauts",
		"color":    "#333333",
		"material": "wool",
	}, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var item models.ClothingItem
	decode(t, resp, &item)
	assert.NotZero(t, item.ID)
	assert.Equal(t, models.CategoryTops, item.Category)
	assert.Equal(t, models.DefaultFormality, item.Formality)
	assert.Nil(t, item.ImagePath)

	resp = env.do(t, "GET", "/api/user/clothing", nil, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var items []models.ClothingItem
	decode(t, resp, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Wool coat", items[0].Name)

	assert.Contains(t, env.producer.eventTypes(), events.ClothingItemCreated)
}

func TestCreateClothingValidation(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "jane@example.com", models.TierFreemium)

	tests := []struct {
		name  string
		body  map[string]interface{}
		field string
	}{
		{
			name:  "unknown category",
			body:  map[string]interface{}{"name": "Hat", "category": "hats", "color": "#000000", "material": "felt"},
			field: "category",
		},
		{
			name:  "bad color",
			body:  map[string]interface{}{"name": "Hat", "category": "accessories", "color": "black", "material": "felt"},
			field: "color",
		},
		{
			name:  "formality out of range",
			body:  map[string]interface{}{"name": "Hat", "category": "accessories", "color": "#000000", "material": "felt", "formality": 6},
			field: "formality",
		},
		{
			name:  "missing material",
			body:  map[string]interface{}{"name": "Hat", "category": "accessories", "color": "#000000"},
			field: "material",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, "POST", "/api/user/clothing", tt.body, token)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var result struct {
				Fields map[string]string `json:"fields"`
			}
			decode(t, resp, &result)
			assert.Contains(t, result.Fields, tt.field)
		})
	}
}

func TestCreateClothingMultipart(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "jane@example.com", models.TierFreemium)

	png := []byte("\x89PNG\r\n\x1a\nfake")
	resp := env.postMultipart(t, token, map[string]string{
		"name":      "Linen shirt",
		"category":  "tops",
		"color":     "#FAFAFA",
		"material":  "linen",
		"formality": "4",
	}, &imagePart{filename: "my shirt.png", contentType: "image/png", data: png})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var item models.ClothingItem
	decode(t, resp, &item)
	assert.Equal(t, 4, item.Formality)
	require.NotNil(t, item.ImagePath)
	assert.True(t, strings.HasPrefix(*item.ImagePath, fmt.Sprintf("/images/%d/", item.UserID)))
	assert.True(t, strings.HasSuffix(*item.ImagePath, "_my_shirt.png"))

	img, err := env.server.App().Test(httptest.NewRequest("GET", *item.ImagePath, nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, img.StatusCode)
	assert.Equal(t, "public, max-age=31536000", img.Header.Get("Cache-Control"))
	served, err := io.ReadAll(img.Body)
	require.NoError(t, err)
	assert.Equal(t, png, served)
}

func TestCreateClothingMultipartRejects(t *testing.T) {
	env := setupTestServer(t)
	_, token := env.register(t, "jane@example.com", models.TierFreemium)

	fields := map[string]string{
		"name":     "Jeans",
		"category": "bottoms",
		"color":    "#1F3A5F",
		"material": "denim",
	}

	t.Run("non integer formality", func(t *testing.T) {
		f := map[string]string{"formality": "formal"}
		for k, v := range fields {
			f[k] = v
		}
		resp := env.postMultipart(t, token, f, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("image too large", func(t *testing.T) {
		resp := env.postMultipart(t, token, fields, &imagePart{
			filename:    "big.jpg",
			contentType: "image/jpeg",
			data:        bytes.Repeat([]byte{0xff}, 2048),
		})
		require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

		var result struct {
			Fields map[string]string `json:"fields"`
		}
		decode(t, resp, &result)
		assert.Contains(t, result.Fields, "image")
	})

	t.Run("not an image", func(t *testing.T) {
		resp := env.postMultipart(t, token, fields, &imagePart{
			filename:    "notes.txt",
			contentType: "text/plain",
			data:        []byte("hello"),
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	resp := env.do(t, "GET", "/api/user/clothing", nil, token)
	var items []models.ClothingItem
	decode(t, resp, &items)
	assert.Empty(t, items)
}

func TestDeleteClothing(t *testing.T) {
	env := setupTestServer(t)
	_, owner := env.register(t, "owner@example.com", models.TierFreemium)
	_, other := env.register(t, "other@example.com", models.TierFreemium)

	item := env.addItem(t, owner, "Sneakers", "shoes", "#FFFFFF")
	path := fmt.Sprintf("/api/user/clothing/%d", item.ID)

	resp := env.do(t, "DELETE", path, nil, other)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp = env.do(t, "DELETE", "/api/user/clothing/abc", nil, owner)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = env.do(t, "DELETE", path, nil, owner)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = env.do(t, "DELETE", path, nil, owner)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	assert.Contains(t, env.producer.eventTypes(), events.ClothingItemDeleted)
}
