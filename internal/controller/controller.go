// Package controller decides, for each render cycle, whether the inputs allow a
// generation and what the host should show.
package controller

import (
	"context"
	"log"
	"strings"

	"github.com/csheth/pdfask/internal/answer"
	"github.com/csheth/pdfask/internal/llm"
	"github.com/csheth/pdfask/internal/locale"
	"github.com/csheth/pdfask/internal/session"
	"github.com/csheth/pdfask/internal/signal"
)

// Inputs is what the user supplied in the current render cycle. Pressed is a
// direct click on the generate control.
type Inputs struct {
	Credential string
	Selection  string
	Category   string
	Pressed    bool
}

type Phase int

const (
	PhaseAwaitingInputs Phase = iota
	PhaseReady
	PhaseGenerating
)

func (p Phase) String() string {
	switch p {
	case PhaseReady:
		return "ready"
	case PhaseGenerating:
		return "generating"
	default:
		return "awaiting-inputs"
	}
}

// PhaseOf reports where the session stands given the current inputs.
func PhaseOf(state *session.State, in Inputs) Phase {
	snap := state.Snapshot()
	switch {
	case snap.InFlight:
		return PhaseGenerating
	case hasText(in.Credential) && hasText(in.Selection):
		return PhaseReady
	default:
		return PhaseAwaitingInputs
	}
}

type Action int

const (
	ActionIdle Action = iota
	ActionWarn
	ActionGenerate
	ActionBusy
)

type Warning int

const (
	WarningNone Warning = iota
	WarningMissingCredential
	WarningEmptySelection
)

// Request is the validated input of one generation.
type Request struct {
	Credential string
	Category   string
	Selection  string
}

type Decision struct {
	Action  Action
	Warning Warning
	Request Request
}

// hasText treats whitespace-only input as missing, so a blank selection or
// credential warns instead of being sent.
func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

// Decide records the inputs on state and picks the next action. A generate
// decision marks the state in flight; the caller must call Finish once the
// answer is in. Warnings leave a pending trigger in place.
func Decide(state *session.State, in Inputs) Decision {
	var d Decision
	state.Update(func(s *session.State) {
		s.Credential = in.Credential
		s.Selection = in.Selection
		s.Category = in.Category
		if !in.Pressed && !s.Trigger {
			d.Action = ActionIdle
			return
		}
		if s.InFlight {
			d.Action = ActionBusy
			return
		}
		switch {
		case !hasText(in.Credential):
			d.Action, d.Warning = ActionWarn, WarningMissingCredential
		case !hasText(in.Selection):
			d.Action, d.Warning = ActionWarn, WarningEmptySelection
		default:
			d.Action = ActionGenerate
			d.Request = Request{
				Credential: strings.TrimSpace(in.Credential),
				Category:   in.Category,
				Selection:  in.Selection,
			}
			s.InFlight = true
			s.Warning = ""
			return
		}
		s.Answer = ""
	})
	return d
}

// Finish ends a generation and resets the trigger so the next cycle does not
// fire again.
func Finish(state *session.State) {
	state.Update(func(s *session.State) {
		s.InFlight = false
		s.Trigger = false
	})
}

// Apply routes an externally dispatched event into the session.
func Apply(state *session.State, ev signal.Event) {
	state.Update(func(s *session.State) {
		switch ev.Kind {
		case signal.KindSelection:
			s.Selection = ev.Text
		case signal.KindTrigger:
			s.Trigger = true
		case signal.KindDocument:
			s.Text = ev.Text
			s.Selection = ""
			s.Answer = ""
		}
	})
}

// WarningText maps a warning to the locale's message.
func WarningText(loc locale.Locale, w Warning) string {
	switch w {
	case WarningMissingCredential:
		return loc.WarnMissingCredential
	case WarningEmptySelection:
		return loc.WarnEmptySelection
	default:
		return ""
	}
}

// Result is what a synchronous host renders after one cycle.
type Result struct {
	Warning   string
	Heading   string
	Answer    string
	Generated bool
}

// Controller runs whole cycles for hosts that block on the answer.
type Controller struct {
	NewClient func(apiKey string) (llm.Client, error)
	Locale    locale.Locale
}

func (c Controller) Run(ctx context.Context, state *session.State, in Inputs) Result {
	d := Decide(state, in)
	switch d.Action {
	case ActionWarn:
		msg := WarningText(c.Locale, d.Warning)
		state.Update(func(s *session.State) { s.Warning = msg })
		return Result{Warning: msg}
	case ActionBusy:
		return Result{Warning: c.Locale.BusyText}
	case ActionGenerate:
		text := c.Generate(ctx, d.Request)
		Finish(state)
		state.Update(func(s *session.State) { s.Answer = text })
		return Result{Heading: c.Locale.AnswerHeading, Answer: text, Generated: true}
	default:
		return Result{}
	}
}

// Generate performs the single outbound request for req. Client construction
// failures are reported in-band like any other provider error.
func (c Controller) Generate(ctx context.Context, req Request) string {
	if c.NewClient == nil {
		return answer.Generator{Locale: c.Locale}.Generate(ctx, req.Category, req.Selection)
	}
	client, err := c.NewClient(req.Credential)
	if err != nil {
		log.Printf("[controller] client setup failed: %v", err)
		return c.Locale.FormatError(err)
	}
	gen := answer.Generator{Client: client, Locale: c.Locale}
	return gen.Generate(ctx, c.Locale.Category(req.Category), req.Selection)
}
