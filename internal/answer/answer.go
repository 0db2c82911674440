// Package answer turns a highlighted passage and a question category into a
// single chat-completion request and always hands back displayable text.
package answer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/csheth/pdfask/internal/llm"
	"github.com/csheth/pdfask/internal/locale"
)

var errNoClient = errors.New("no llm client configured")

// BuildPrompt composes the fixed system instruction and the user message. The
// highlighted text is interpolated verbatim.
func BuildPrompt(loc locale.Locale, category, highlighted string) llm.Prompt {
	return llm.Prompt{
		System: loc.SystemInstruction,
		User:   loc.UserMessage(category, highlighted),
	}
}

// Generator asks Client about a passage and formats failures with Locale.
type Generator struct {
	Client llm.Client
	Locale locale.Locale
}

// Generate never fails: provider errors and panics come back as the locale's
// error string so hosts can render them like an answer.
func (g Generator) Generate(ctx context.Context, category, highlighted string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[answer] recovered panic: %v", r)
			out = g.Locale.FormatError(fmt.Errorf("%v", r))
		}
	}()
	if g.Client == nil {
		return g.Locale.FormatError(errNoClient)
	}
	text, err := g.Client.Complete(ctx, BuildPrompt(g.Locale, category, highlighted))
	if err != nil {
		log.Printf("[answer] %s failed: %v", g.Client.Name(), err)
		return g.Locale.FormatError(err)
	}
	return text
}
