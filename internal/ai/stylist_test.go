package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/illegalcall/wardrobe/internal/models"
)

func TestParseOutfits(t *testing.T) {
	content := "```json\n" + `{"outfits":[
		{"name":"City look","items":[{"id":1,"name":"Tee"},{"id":"2"},3],"color_palette":["#FFFFFF","#000000"],"justification":"Clean lines."},
		{"name":"Backup","items":["x",{"id":"nope"}],"style_notes":"Relaxed."},
		{"name":"Plain","items":[]}
	]}` + "\n```"

	outfits, err := ParseOutfits(content)
	require.NoError(t, err)
	require.Len(t, outfits, 3)

	assert.Equal(t, "City look", outfits[0].Name)
	assert.Equal(t, []int64{1, 2, 3}, outfits[0].ItemIDs)
	assert.Equal(t, []string{"#FFFFFF", "#000000"}, outfits[0].ColorPalette)
	assert.Equal(t, "Clean lines.", outfits[0].Justification)

	assert.Empty(t, outfits[1].ItemIDs)
	assert.Equal(t, "Relaxed.", outfits[1].Justification)
	assert.NotEmpty(t, outfits[2].Justification)
}

func TestParseOutfitsMalformed(t *testing.T) {
	for _, content := range []string{`not json`, `{"looks":[]}`, `{"outfits":"none"}`} {
		_, err := ParseOutfits(content)
		assert.ErrorIs(t, err, ErrMalformedResponse, content)
	}

	outfits, err := ParseOutfits(`{"outfits":[]}`)
	require.NoError(t, err)
	assert.Empty(t, outfits)
}

func TestChatStylistRecommend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "test-model", gjson.GetBytes(body, "model").String())
		assert.Equal(t, "json_object", gjson.GetBytes(body, "response_format.type").String())
		assert.Contains(t, gjson.GetBytes(body, "messages.0.content").String(), "Blue jeans")

		content, _ := json.Marshal(`{"outfits":[{"name":"Look","items":[{"id":7}],"color_palette":["#4682B4"],"justification":"Works."}]}`)
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + string(content) + `}}]}`))
	}))
	defer srv.Close()

	stylist := NewChatStylist("key", srv.URL, "test-model")
	outfits, err := stylist.Recommend(context.Background(), StylistRequest{
		EventType: "work",
		Weather:   models.WeatherContext{Temperature: 12, Conditions: "rain"},
		Wardrobe:  []models.ClothingItem{{ID: 7, Name: "Blue jeans", Category: models.CategoryBottoms, Color: "#4682B4"}},
	})
	require.NoError(t, err)
	require.Len(t, outfits, 1)
	assert.Equal(t, []int64{7}, outfits[0].ItemIDs)
}

func TestChatStylistErrors(t *testing.T) {
	_, err := NewChatStylist("", "http://unused", "m").Recommend(context.Background(), StylistRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()
	_, err = NewChatStylist("key", srv.URL, "m").Recommend(context.Background(), StylistRequest{})
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("Here:\n```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("  {\"a\":1} "))
}
