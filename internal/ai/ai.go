// Package ai wraps the two external model services: the outfit stylist
// (an OpenAI-compatible chat completions endpoint) and the garment vision
// classifier (Gemini generateContent).
package ai

import (
	"errors"
	"strings"
)

var (
	// ErrNotConfigured is returned when a client has no API key.
	ErrNotConfigured = errors.New("ai service not configured")
	// ErrMalformedResponse is returned when a model answer cannot be used.
	ErrMalformedResponse = errors.New("malformed model response")
	// ErrInvalidImage is returned for image references that are not data URLs.
	ErrInvalidImage = errors.New("invalid image reference")
)

// stripCodeFence removes a markdown code fence the models sometimes wrap JSON in.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
	} else {
		return s
	}
	if i := strings.Index(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
