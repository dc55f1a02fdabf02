package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/illegalcall/wardrobe/internal/models"
)

// StylistRequest is everything the stylist sees when composing outfits.
type StylistRequest struct {
	EventType       string
	StylePreference string
	Weather         models.WeatherContext
	Wardrobe        []models.ClothingItem
	Profile         *models.UserProfile
}

// Outfit is one composition proposed by the stylist. ItemIDs are not yet
// checked against the wardrobe.
type Outfit struct {
	Name          string
	ItemIDs       []int64
	ColorPalette  []string
	Justification string
}

// Stylist composes outfits from a wardrobe.
type Stylist interface {
	Recommend(ctx context.Context, req StylistRequest) ([]Outfit, error)
}

// ChatStylist calls a chat completions endpoint in JSON mode.
type ChatStylist struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewChatStylist(apiKey, baseURL, model string) *ChatStylist {
	return &ChatStylist{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type promptItem struct {
	ID        int64  `json:"id"`
	Category  string `json:"category"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	Material  string `json:"material"`
	Formality int    `json:"formality"`
}

func buildStylistPrompt(req StylistRequest) (string, error) {
	items := make([]promptItem, 0, len(req.Wardrobe))
	for _, it := range req.Wardrobe {
		items = append(items, promptItem{
			ID:        it.ID,
			Category:  string(it.Category),
			Name:      it.Name,
			Color:     it.Color,
			Material:  it.Material,
			Formality: it.Formality,
		})
	}
	wardrobe, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal wardrobe: %w", err)
	}
	profile := []byte("{}")
	if req.Profile != nil {
		if profile, err = json.MarshalIndent(req.Profile, "", "  "); err != nil {
			return "", fmt.Errorf("failed to marshal profile: %w", err)
		}
	}
	style := req.StylePreference
	if style == "" {
		style = "none"
	}

	return fmt.Sprintf(`
You are an expert stylist. Use ONLY the wardrobe items listed below.
Build harmonious palettes using the color wheel, the client's skin undertone and the season.

WARDROBE:
%s

CONTEXT:
Event: %s
Temperature: %.0f°C
Conditions: %s
Style preference: %s
Client profile: %s

INSTRUCTIONS:
1. Use only item ids from the wardrobe above.
2. Return 2 complete outfits, each with 1 top, 1 bottom, 1 pair of shoes and 0-1 accessory.
3. Respond with ONLY this JSON structure:
{"outfits":[{"name":"Outfit name","items":[{"id":1,"category":"tops","name":"exact name"}],"color_palette":["#HEX"],"justification":"Why this combination works"}]}
`, wardrobe, req.EventType, req.Weather.Temperature, req.Weather.Conditions, style, profile), nil
}

func (c *ChatStylist) Recommend(ctx context.Context, req StylistRequest) ([]Outfit, error) {
	if c.apiKey == "" {
		return nil, ErrNotConfigured
	}

	prompt, err := buildStylistPrompt(req)
	if err != nil {
		return nil, err
	}
	reqBytes, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: prompt}},
		Temperature:    0.3,
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	content := gjson.GetBytes(body, "choices.0.message.content")
	if !content.Exists() {
		return nil, fmt.Errorf("%w: no completion content", ErrMalformedResponse)
	}
	return ParseOutfits(content.String())
}

// ParseOutfits reads the stylist's JSON answer. A missing "outfits" array is
// malformed; an empty one is a valid answer with no outfits. Item references
// may be objects with an id or bare ids, as numbers or numeric strings.
func ParseOutfits(content string) ([]Outfit, error) {
	clean := stripCodeFence(content)
	if !gjson.Valid(clean) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedResponse)
	}
	list := gjson.Get(clean, "outfits")
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: missing outfits", ErrMalformedResponse)
	}

	outfits := make([]Outfit, 0)
	for _, o := range list.Array() {
		outfit := Outfit{Name: o.Get("name").String()}
		for _, ref := range o.Get("items").Array() {
			if ref.IsObject() {
				ref = ref.Get("id")
			}
			if id, ok := intValue(ref); ok {
				outfit.ItemIDs = append(outfit.ItemIDs, id)
			}
		}
		for _, c := range o.Get("color_palette").Array() {
			outfit.ColorPalette = append(outfit.ColorPalette, c.String())
		}
		switch {
		case o.Get("justification").String() != "":
			outfit.Justification = o.Get("justification").String()
		case o.Get("style_notes").String() != "":
			outfit.Justification = o.Get("style_notes").String()
		default:
			outfit.Justification = "AI generated outfit recommendation"
		}
		outfits = append(outfits, outfit)
	}
	return outfits, nil
}

// intValue accepts a JSON number or a numeric string.
func intValue(ref gjson.Result) (int64, bool) {
	switch ref.Type {
	case gjson.Number:
		return ref.Int(), true
	case gjson.String:
		id, err := strconv.ParseInt(strings.TrimSpace(ref.String()), 10, 64)
		return id, err == nil
	}
	return 0, false
}
