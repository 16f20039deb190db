package annotator

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"ValueScope/internal/model"
)

const DefaultModel = "gemini-2.5-flash"

// Gemini annotates reports with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini annotator for apiKey.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Annotate(ctx context.Context, in Input) (*model.Annotation, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      genai.Ptr[float32](0.4),
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: "You are a cautious equity analyst. " +
			"You never promise returns and you keep commentary factual."}}},
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(in)), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	a, err := parseResponse(resp.Text())
	if err != nil {
		return nil, err
	}
	a.Model = g.model
	return a, nil
}
