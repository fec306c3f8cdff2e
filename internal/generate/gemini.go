// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package generate

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiBackend drafts candidates through the Gemini API.
type GeminiBackend struct {
	// APIKey is the Gemini API key.
	APIKey string

	// Model is the model identifier (default "gemini-2.5-flash").
	Model string
}

func (g *GeminiBackend) Name() string { return "gemini" }

// Generate renders the draft prompt, calls the Gemini API, and parses the
// JSON draft out of the reply (R4.2).
func (g *GeminiBackend) Generate(ctx context.Context, req Request) (*Response, error) {
	prompt, err := renderPrompt(req)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: g.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("creating Gemini client: %w", err)
	}

	model := g.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	resp, err := client.Models.GenerateContent(ctx, model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, nil)
	if err != nil {
		return nil, fmt.Errorf("calling Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("Gemini API returned empty content")
	}
	return parseDraftJSON(text)
}
