package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/illegalcall/wardrobe/internal/models"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Classifier describes a garment photo.
type Classifier interface {
	Classify(ctx context.Context, image string) (models.ClothingAnalysis, error)
}

// GeminiClassifier sends the image inline to Gemini generateContent.
type GeminiClassifier struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewGeminiClassifier builds a classifier. A zero timeout means no limit.
func NewGeminiClassifier(apiKey, baseURL, model string, timeout time.Duration) *GeminiClassifier {
	return &GeminiClassifier{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig map[string]interface{} `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

const visionPrompt = `Analyze this clothing image and return ONLY a JSON object with this exact structure:
{
  "category": "tops|bottoms|shoes|accessories",
  "name": "precise garment name",
  "color": "hex color #XXXXXX of the main color",
  "material": "main material (cotton, wool, denim, leather, polyester, ...)",
  "formality": 1-5 (1 = very casual, 5 = very formal)
}

Categories:
- tops: t-shirt, shirt, sweater, jacket, blazer, sweatshirt, top
- bottoms: jeans, trousers, shorts, skirt, leggings
- shoes: sneakers, dress shoes, boots, sandals
- accessories: bag, belt, hat, jewelry

Return ONLY valid JSON, nothing else.`

// decodeImage splits a data URL into mime type and base64 payload. Any other
// reference is rejected; the server never fetches images by URL.
func decodeImage(image string) (string, string, error) {
	if !strings.HasPrefix(image, "data:") {
		return "", "", fmt.Errorf("%w: expected a data URL", ErrInvalidImage)
	}
	header, data, ok := strings.Cut(strings.TrimPrefix(image, "data:"), ",")
	if !ok || data == "" {
		return "", "", fmt.Errorf("%w: empty data URL", ErrInvalidImage)
	}
	mime := strings.TrimSuffix(header, ";base64")
	if mime == "" {
		mime = "image/jpeg"
	}
	return mime, data, nil
}

func (c *GeminiClassifier) Classify(ctx context.Context, image string) (models.ClothingAnalysis, error) {
	if c.apiKey == "" {
		return models.ClothingAnalysis{}, ErrNotConfigured
	}

	mime, data, err := decodeImage(image)
	if err != nil {
		return models.ClothingAnalysis{}, err
	}

	reqBytes, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{
			Parts: []geminiPart{
				{Text: visionPrompt},
				{InlineData: &geminiInlineData{MimeType: mime, Data: data}},
			},
		}},
		GenerationConfig: map[string]interface{}{
			"temperature":     0.1,
			"maxOutputTokens": 500,
		},
	})
	if err != nil {
		return models.ClothingAnalysis{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBytes))
	if err != nil {
		return models.ClothingAnalysis{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.ClothingAnalysis{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ClothingAnalysis{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return models.ClothingAnalysis{}, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return models.ClothingAnalysis{}, fmt.Errorf("%w: no response generated", ErrMalformedResponse)
	}
	clean := stripCodeFence(text.String())
	if !gjson.Valid(clean) {
		return models.ClothingAnalysis{}, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	return NormalizeAnalysis(gjson.Parse(clean)), nil
}

// NormalizeAnalysis clamps a raw classifier answer onto valid item fields.
func NormalizeAnalysis(raw gjson.Result) models.ClothingAnalysis {
	out := models.ClothingAnalysis{
		Category:  models.CategoryTops,
		Name:      strings.TrimSpace(raw.Get("name").String()),
		Color:     strings.TrimSpace(raw.Get("color").String()),
		Material:  strings.TrimSpace(raw.Get("material").String()),
		Formality: models.DefaultFormality,
	}
	if c, ok := models.ParseCategory(raw.Get("category").String()); ok {
		out.Category = c
	}
	if out.Name == "" {
		out.Name = "Detected garment"
	}
	if !hexColor.MatchString(out.Color) {
		out.Color = "#000000"
	}
	if out.Material == "" {
		out.Material = "cotton"
	}
	if f, ok := intValue(raw.Get("formality")); ok {
		switch v := int(f); {
		case v < 1:
			out.Formality = 1
		case v > 5:
			out.Formality = 5
		default:
			out.Formality = v
		}
	}
	return out
}
