package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

const (
	defaultOpenAIModel = "gpt-3.5-turbo"
	defaultGeminiModel = "gemini-2.5-flash"
)

var (
	ErrMissingKey      = errors.New("api key is required")
	ErrUnknownProvider = errors.New("unknown llm provider")
	ErrNoChoices       = errors.New("completion returned no choices")
)

// Config describes how to build an LLM client. The API key is supplied
// separately because it arrives at runtime from the user.
type Config struct {
	Provider   string
	Model      string
	Endpoint   string
	HTTPClient *http.Client
}

// Prompt is the two-message payload sent for every generation.
type Prompt struct {
	System string
	User   string
}

// Client sends one chat completion and returns the first completion's text.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
	Name() string
}

// Providers lists the supported provider identifiers.
func Providers() []string {
	return []string{ProviderOpenAI, ProviderGemini}
}

// NormalizeProvider maps an empty or mixed-case provider to its identifier.
func NormalizeProvider(provider string) (string, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" {
		return ProviderOpenAI, nil
	}
	for _, p := range Providers() {
		if p == provider {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProvider, provider)
}

// New builds a client bound to apiKey.
func New(cfg Config, apiKey string) (Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingKey
	}
	provider, err := NormalizeProvider(cfg.Provider)
	if err != nil {
		return nil, err
	}
	switch provider {
	case ProviderGemini:
		model := cfg.Model
		if model == "" {
			model = defaultGeminiModel
		}
		return newGeminiClient(apiKey, model, cfg.Endpoint, pickHTTPClient(cfg.HTTPClient))
	default:
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return newOpenAIClient(apiKey, model, cfg.Endpoint, pickHTTPClient(cfg.HTTPClient)), nil
	}
}

// DefaultModel reports the model used when none is configured.
func DefaultModel(provider string) string {
	if provider == ProviderGemini {
		return defaultGeminiModel
	}
	return defaultOpenAIModel
}

// DisplayName labels cfg the way its client's Name would, without a key.
func DisplayName(cfg Config) string {
	provider, err := NormalizeProvider(cfg.Provider)
	if err != nil {
		return ""
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel(provider)
	}
	if provider == ProviderGemini {
		return fmt.Sprintf("Gemini (%s)", model)
	}
	return fmt.Sprintf("OpenAI (%s)", model)
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// No client timeout: a generation runs until the provider answers or fails.
	return &http.Client{}
}
