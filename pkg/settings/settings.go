// Package settings is the client for per-user backend settings,
// currently the Gemini API key used for AI report summaries. The key
// itself never travels back to the client; only a has-key flag and a
// last-four-characters preview do.
package settings

import (
	"context"
	"net/http"
)

// Settings is the GET /api/settings/ response.
type Settings struct {
	HasGeminiKey     bool    `json:"has_gemini_key"`
	GeminiKeyPreview *string `json:"gemini_key_preview"`
}

// updateRequest is the PUT /api/settings/ body.
type updateRequest struct {
	GeminiAPIKey *string `json:"gemini_api_key,omitempty"`
}

// updateResponse mirrors the server's update acknowledgement.
type updateResponse struct {
	Message          string  `json:"message"`
	HasGeminiKey     bool    `json:"has_gemini_key"`
	GeminiKeyPreview *string `json:"gemini_key_preview"`
}

// Transport is the slice of the API client this package needs.
type Transport interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

// Client drives the settings endpoints.
type Client struct {
	transport Transport
}

// NewClient creates a settings client.
func NewClient(transport Transport) *Client {
	return &Client{transport: transport}
}

// Get fetches the current settings.
func (c *Client) Get(ctx context.Context) (*Settings, error) {
	var out Settings
	if err := c.transport.Do(ctx, http.MethodGet, "/api/settings/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetGeminiKey stores a new Gemini API key and returns the refreshed
// settings with the server-generated preview.
func (c *Client) SetGeminiKey(ctx context.Context, key string) (*Settings, error) {
	var resp updateResponse
	body := updateRequest{GeminiAPIKey: &key}
	if err := c.transport.Do(ctx, http.MethodPut, "/api/settings/", body, &resp); err != nil {
		return nil, err
	}
	return &Settings{HasGeminiKey: resp.HasGeminiKey, GeminiKeyPreview: resp.GeminiKeyPreview}, nil
}

// DeleteGeminiKey removes the stored key.
func (c *Client) DeleteGeminiKey(ctx context.Context) error {
	return c.transport.Do(ctx, http.MethodDelete, "/api/settings/gemini-key", nil, nil)
}
