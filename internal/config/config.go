// Package config resolves runtime settings from a .env file, the environment
// and, last, command-line flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/csheth/pdfask/internal/llm"
	"github.com/csheth/pdfask/internal/locale"
)

const DefaultAddr = ":8080"

// Environment variable names.
const (
	EnvLocale       = "PDFASK_LOCALE"
	EnvProvider     = "PDFASK_PROVIDER"
	EnvModel        = "PDFASK_MODEL"
	EnvEndpoint     = "PDFASK_ENDPOINT"
	EnvAddr         = "PDFASK_ADDR"
	EnvLogFile      = "PDFASK_LOG_FILE"
	EnvAllowOrigins = "PDFASK_ALLOW_ORIGINS"
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
)

type Config struct {
	Locale   string
	Provider string
	Model    string
	Endpoint string
	// APIKey only pre-fills the credential field; the user can replace it.
	APIKey       string
	Addr         string
	NoAltScreen  bool
	LogFile      string
	AllowOrigins []string
}

// Load reads the optional .env files, then the environment. A missing .env is
// not an error.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.Getenv), nil
}

// FromEnv builds a Config from getenv without touching any file.
func FromEnv(getenv func(string) string) Config {
	cfg := Config{
		Locale:   strings.TrimSpace(getenv(EnvLocale)),
		Provider: strings.TrimSpace(getenv(EnvProvider)),
		Model:    strings.TrimSpace(getenv(EnvModel)),
		Endpoint: strings.TrimSpace(getenv(EnvEndpoint)),
		Addr:     strings.TrimSpace(getenv(EnvAddr)),
		LogFile:  strings.TrimSpace(getenv(EnvLogFile)),
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Locale == "" {
		cfg.Locale = locale.DefaultCode
	}
	for _, origin := range strings.Split(getenv(EnvAllowOrigins), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, origin)
		}
	}
	cfg.APIKey = cfg.KeyFrom(getenv)
	return cfg
}

// KeyFrom picks the credential variable matching c.Provider.
func (c Config) KeyFrom(getenv func(string) string) string {
	if strings.EqualFold(strings.TrimSpace(c.Provider), llm.ProviderGemini) {
		return strings.TrimSpace(getenv(EnvGeminiKey))
	}
	return strings.TrimSpace(getenv(EnvOpenAIKey))
}

// Validate normalises the provider and checks that locale and provider are
// known.
func (c *Config) Validate() error {
	if _, err := locale.Lookup(c.Locale); err != nil {
		return err
	}
	provider, err := llm.NormalizeProvider(c.Provider)
	if err != nil {
		return err
	}
	c.Provider = provider
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	return nil
}

// LLMConfig is the provider part of c.
func (c Config) LLMConfig() llm.Config {
	return llm.Config{Provider: c.Provider, Model: c.Model, Endpoint: c.Endpoint}
}

// Catalogue returns the resolved locale, falling back to the default.
func (c Config) Catalogue() locale.Locale {
	loc, err := locale.Lookup(c.Locale)
	if err != nil {
		return locale.MustLookup(locale.DefaultCode)
	}
	return loc
}
