package llm

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

type geminiClient struct {
	client *genai.Client
	model  string
}

func newGeminiClient(apiKey, model, endpoint string, httpClient *http.Client) (*geminiClient, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if endpoint != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: endpoint}
	}
	// genai.NewClient only uses the context for credential discovery, which an
	// API key skips.
	c, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiClient{client: c, model: model}, nil
}

func (g *geminiClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", g.model)
}

func (g *geminiClient) Complete(ctx context.Context, prompt Prompt) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	}
	res, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		genai.NewContentFromText(prompt.User, genai.RoleUser),
	}, config)
	if err != nil {
		return "", err
	}
	if len(res.Candidates) == 0 {
		return "", ErrNoChoices
	}
	return res.Text(), nil
}
