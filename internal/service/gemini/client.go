// Package gemini provides the narrative generation client for briefings.
package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	drepo "MarketBrief/internal/domain/repository"
)

// Client implements Narrator on top of the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient creates a Gemini narrator. Returns an error if the underlying
// client cannot be constructed; an empty API key should be handled by the
// caller before reaching here.
func NewClient(ctx context.Context, apiKey, model string) (drepo.Narrator, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: genaiClient, model: model}, nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Generate runs one generation round with a system instruction and a user
// message, returning the concatenated text parts of the first candidate.
func (c *Client) Generate(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	return text, nil
}
