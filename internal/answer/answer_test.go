package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/csheth/pdfask/internal/llm"
	"github.com/csheth/pdfask/internal/locale"
)

type fakeLLM struct {
	response string
	err      error
	panicMsg string
	prompts  []llm.Prompt
}

func (f *fakeLLM) Complete(_ context.Context, prompt llm.Prompt) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func TestBuildPromptInterpolatesCategoryAndSelection(t *testing.T) {
	loc := locale.MustLookup("en")
	prompt := BuildPrompt(loc, "How", "photosynthesis")
	if !strings.Contains(prompt.User, "How about 'photosynthesis'") {
		t.Fatalf("user message missing interpolation: %q", prompt.User)
	}
	if prompt.System != loc.SystemInstruction {
		t.Fatalf("unexpected system message: %q", prompt.System)
	}
}

func TestBuildPromptKeepsSelectionVerbatim(t *testing.T) {
	loc := locale.MustLookup("en")
	raw := `it's "quoted" <b>{x}</b> %s`
	prompt := BuildPrompt(loc, "Why", raw)
	if !strings.Contains(prompt.User, "'"+raw+"'") {
		t.Fatalf("selection was altered: %q", prompt.User)
	}
}

func TestGenerateReturnsCompletion(t *testing.T) {
	fake := &fakeLLM{response: "Plants turn light into sugar."}
	gen := Generator{Client: fake, Locale: locale.MustLookup("en")}
	got := gen.Generate(context.Background(), "How", "photosynthesis")
	if got != "Plants turn light into sugar." {
		t.Fatalf("unexpected answer: %q", got)
	}
	if len(fake.prompts) != 1 {
		t.Fatalf("expected a single request, got %d", len(fake.prompts))
	}
}

func TestGenerateFormatsErrors(t *testing.T) {
	gen := Generator{Client: &fakeLLM{err: errors.New("timeout")}, Locale: locale.MustLookup("en")}
	got := gen.Generate(context.Background(), "How", "photosynthesis")
	if !strings.HasPrefix(got, "Error: ") {
		t.Fatalf("expected error prefix, got %q", got)
	}
	if !strings.Contains(got, "timeout") {
		t.Fatalf("expected error text, got %q", got)
	}
}

func TestGenerateRecoversPanics(t *testing.T) {
	gen := Generator{Client: &fakeLLM{panicMsg: "boom"}, Locale: locale.MustLookup("en")}
	got := gen.Generate(context.Background(), "Details", "x")
	if !strings.HasPrefix(got, "Error: ") || !strings.Contains(got, "boom") {
		t.Fatalf("unexpected answer after panic: %q", got)
	}
}

func TestGenerateWithoutClient(t *testing.T) {
	gen := Generator{Locale: locale.MustLookup("hu")}
	got := gen.Generate(context.Background(), "Miért", "x")
	if !strings.HasPrefix(got, "Hiba: ") {
		t.Fatalf("expected hungarian error prefix, got %q", got)
	}
}

func TestGenerateHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := Generator{Client: &fakeLLM{err: context.Canceled}, Locale: locale.MustLookup("en")}
	got := gen.Generate(ctx, "How", "x")
	if !strings.Contains(got, context.Canceled.Error()) {
		t.Fatalf("expected cancellation text, got %q", got)
	}
}
