package summarize

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"minutesapi/internal/config"
)

// systemInstruction fixes the generation role so output stays in the
// minutes-formatting register regardless of transcript content.
const systemInstruction = "You are a helpful assistant who formats meeting transcriptions."

// temperature bounds randomness so repeated runs stay close in structure.
const temperature = 0.4

// GeminiEngine generates summaries with the Gemini API.
type GeminiEngine struct {
	cfg config.GeminiConfig
}

var _ Engine = (*GeminiEngine)(nil)

// NewGeminiEngine builds an Engine backed by the configured Gemini model.
func NewGeminiEngine(cfg config.GeminiConfig) *GeminiEngine {
	return &GeminiEngine{cfg: cfg}
}

// Generate sends the instruction and returns the single generated text.
// Each call is bounded by the configured request timeout.
func (g *GeminiEngine) Generate(ctx context.Context, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(g.cfg.RequestTimeoutSec)*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create gemini client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, g.cfg.Model, genai.Text(instruction), &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(float32(temperature)),
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from gemini")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		if part.Text != "" {
			text += part.Text
		}
	}
	if text == "" {
		return "", fmt.Errorf("empty response from gemini")
	}
	return text, nil
}
