package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/csheth/pdfask/internal/config"
	"github.com/csheth/pdfask/internal/controller"
	"github.com/csheth/pdfask/internal/llm"
	"github.com/csheth/pdfask/internal/tui"
)

// options holds flag values; empty strings leave the environment in charge.
type options struct {
	locale      string
	provider    string
	model       string
	endpoint    string
	logFile     string
	addr        string
	noAltScreen bool
}

func main() {
	var opts options
	root := &cobra.Command{
		Use:           "pdfask [file.pdf]",
		Short:         "Highlight text in a PDF and ask an LLM about it",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(opts)
			if err != nil {
				return err
			}
			var path string
			if len(args) == 1 {
				if path, err = filepath.Abs(args[0]); err != nil {
					return fmt.Errorf("resolve pdf path: %w", err)
				}
			}
			return runTUI(cfg, path)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.locale, "locale", "", "interface and answer language (en|hu)")
	pf.StringVar(&opts.provider, "provider", "", "LLM provider (openai|gemini)")
	pf.StringVar(&opts.model, "model", "", "override the provider's default model")
	pf.StringVar(&opts.endpoint, "endpoint", "", "custom provider base URL")
	root.Flags().BoolVar(&opts.noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	root.Flags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of discarding them")

	root.AddCommand(serveCmd(&opts))

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolve layers flags over the .env file and environment.
func resolve(opts options) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Locale, opts.locale)
	if opts.provider != "" {
		cfg.Provider = opts.provider
		cfg.APIKey = cfg.KeyFrom(os.Getenv)
	}
	override(&cfg.Model, opts.model)
	override(&cfg.Endpoint, opts.endpoint)
	override(&cfg.LogFile, opts.logFile)
	override(&cfg.Addr, opts.addr)
	if opts.noAltScreen {
		cfg.NoAltScreen = true
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newController(cfg config.Config) controller.Controller {
	llmCfg := cfg.LLMConfig()
	return controller.Controller{
		Locale: cfg.Catalogue(),
		NewClient: func(apiKey string) (llm.Client, error) {
			return llm.New(llmCfg, apiKey)
		},
	}
}

func runTUI(cfg config.Config, path string) error {
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "pdfask")
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	ctrl := newController(cfg)
	teaOpts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !cfg.NoAltScreen {
		teaOpts = append(teaOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Locale:       ctrl.Locale,
			NewClient:    ctrl.NewClient,
			ProviderName: llm.DisplayName(cfg.LLMConfig()),
			Credential:   cfg.APIKey,
			Path:         path,
		}),
		teaOpts...,
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}
