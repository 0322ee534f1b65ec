package advisor

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrNotConfigured is returned by Offline for every query.
var ErrNotConfigured = errors.New("advisor API key is not configured")

// Prompt frames a shopper's question for the model.
func Prompt(query string) string {
	return fmt.Sprintf(`User wants advice on laptop screen guards: "%s".
Context: We are Safio.in, specializing in LAPTOP screen protection only.
Available types: Privacy (for remote work/security), Blue Light (for long hours/eye health), Self-Healing (for touchscreens/scratch protection).
Recommend the best fit for their laptop and explain why briefly. Mention our 3-month warranty. Keep it professional and helpful.`, query)
}

// GenAIResponder answers queries with a Gemini model.
type GenAIResponder struct {
	client *genai.Client
	model  string
}

// NewGenAIResponder creates a Gemini client for apiKey.
func NewGenAIResponder(ctx context.Context, apiKey, model string) (*GenAIResponder, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &GenAIResponder{client: client, model: model}, nil
}

func (r *GenAIResponder) Respond(ctx context.Context, query string) (string, error) {
	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(Prompt(query)), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	return resp.Text(), nil
}

// Offline always fails, so callers fall back to the canned advice.
type Offline struct{}

func (Offline) Respond(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
