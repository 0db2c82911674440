package controller

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/csheth/pdfask/internal/llm"
	"github.com/csheth/pdfask/internal/locale"
	"github.com/csheth/pdfask/internal/session"
	"github.com/csheth/pdfask/internal/signal"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
	prompts  []llm.Prompt
}

func (f *fakeLLM) Complete(_ context.Context, prompt llm.Prompt) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func (f *fakeLLM) Name() string { return "fake" }

func newTestController(fake *fakeLLM) (Controller, *[]string) {
	var keys []string
	return Controller{
		Locale: locale.MustLookup("en"),
		NewClient: func(apiKey string) (llm.Client, error) {
			keys = append(keys, apiKey)
			return fake, nil
		},
	}, &keys
}

func TestDecideIdleWithoutPressOrTrigger(t *testing.T) {
	var st session.State
	d := Decide(&st, Inputs{Credential: "sk", Selection: "x"})
	if d.Action != ActionIdle {
		t.Fatalf("expected idle, got %v", d.Action)
	}
	if st.Snapshot().InFlight {
		t.Fatal("idle decision must not mark in flight")
	}
}

func TestEmptySelectionNeverReachesGenerator(t *testing.T) {
	fake := &fakeLLM{response: "nope"}
	ctrl, _ := newTestController(fake)
	var st session.State
	for _, sel := range []string{"", "   ", "\n\t"} {
		res := ctrl.Run(context.Background(), &st, Inputs{Credential: "sk-test", Selection: sel, Category: "How", Pressed: true})
		if res.Warning != "Please highlight text first." {
			t.Fatalf("selection %q: unexpected warning %q", sel, res.Warning)
		}
		if res.Generated {
			t.Fatalf("selection %q: should not generate", sel)
		}
	}
	if fake.calls != 0 {
		t.Fatalf("generator invoked %d times", fake.calls)
	}
}

func TestMissingCredentialNeverReachesGenerator(t *testing.T) {
	fake := &fakeLLM{response: "nope"}
	ctrl, keys := newTestController(fake)
	var st session.State
	res := ctrl.Run(context.Background(), &st, Inputs{Selection: "photosynthesis", Category: "How", Pressed: true})
	if res.Warning != "Please enter your OpenAI API key." {
		t.Fatalf("unexpected warning %q", res.Warning)
	}
	if fake.calls != 0 || len(*keys) != 0 {
		t.Fatal("generator must not be reached without a credential")
	}
}

func TestGeneratorOnlyRunsWhenBothInputsPresent(t *testing.T) {
	credentials := []string{"", " ", "sk-test"}
	selections := []string{"", "  ", "photosynthesis"}
	for _, cred := range credentials {
		for _, sel := range selections {
			for _, pressed := range []bool{false, true} {
				fake := &fakeLLM{response: "ok"}
				ctrl, _ := newTestController(fake)
				var st session.State
				if !pressed {
					Apply(&st, signal.Event{Kind: signal.KindTrigger})
				}
				res := ctrl.Run(context.Background(), &st, Inputs{Credential: cred, Selection: sel, Category: "Why", Pressed: pressed})
				want := strings.TrimSpace(cred) != "" && strings.TrimSpace(sel) != ""
				if (fake.calls == 1) != want || res.Generated != want {
					t.Fatalf("cred=%q sel=%q pressed=%v: calls=%d generated=%v", cred, sel, pressed, fake.calls, res.Generated)
				}
			}
		}
	}
}

func TestRunBuildsPromptFromCategoryAndSelection(t *testing.T) {
	fake := &fakeLLM{response: "Light becomes sugar."}
	ctrl, keys := newTestController(fake)
	var st session.State
	res := ctrl.Run(context.Background(), &st, Inputs{Credential: " sk-test ", Selection: "photosynthesis", Category: "How", Pressed: true})
	if res.Answer != "Light becomes sugar." || res.Heading != "Detailed Answer" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(fake.prompts[0].User, "How about 'photosynthesis'") {
		t.Fatalf("unexpected prompt %q", fake.prompts[0].User)
	}
	if (*keys)[0] != "sk-test" {
		t.Fatalf("expected trimmed key, got %q", (*keys)[0])
	}
	if st.Snapshot().Answer != "Light becomes sugar." {
		t.Fatal("answer should be recorded on the session")
	}
}

func TestRunFormatsNetworkErrors(t *testing.T) {
	fake := &fakeLLM{err: errors.New("timeout")}
	ctrl, _ := newTestController(fake)
	var st session.State
	res := ctrl.Run(context.Background(), &st, Inputs{Credential: "sk", Selection: "x", Category: "How", Pressed: true})
	if !res.Generated || !strings.HasPrefix(res.Answer, "Error: ") || !strings.Contains(res.Answer, "timeout") {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestRunReportsClientSetupErrorsInBand(t *testing.T) {
	ctrl := Controller{
		Locale: locale.MustLookup("en"),
		NewClient: func(string) (llm.Client, error) {
			return nil, llm.ErrUnknownProvider
		},
	}
	var st session.State
	res := ctrl.Run(context.Background(), &st, Inputs{Credential: "sk", Selection: "x", Pressed: true})
	if !strings.Contains(res.Answer, llm.ErrUnknownProvider.Error()) {
		t.Fatalf("unexpected answer %q", res.Answer)
	}
	if st.Snapshot().InFlight {
		t.Fatal("in-flight mark must be cleared")
	}
}

func TestKeyboardTriggerResetsAfterGeneration(t *testing.T) {
	fake := &fakeLLM{response: "ok"}
	ctrl, _ := newTestController(fake)
	var st session.State
	Apply(&st, signal.Event{Kind: signal.KindTrigger})
	in := Inputs{Credential: "sk", Selection: "x", Category: "How"}
	if res := ctrl.Run(context.Background(), &st, in); !res.Generated {
		t.Fatal("expected trigger to generate")
	}
	if st.Snapshot().Trigger {
		t.Fatal("trigger should be reset")
	}
	if res := ctrl.Run(context.Background(), &st, in); res.Generated {
		t.Fatal("next cycle must not re-fire")
	}
	if fake.calls != 1 {
		t.Fatalf("expected one call, got %d", fake.calls)
	}
}

func TestWarningKeepsTriggerPending(t *testing.T) {
	fake := &fakeLLM{response: "ok"}
	ctrl, _ := newTestController(fake)
	var st session.State
	Apply(&st, signal.Event{Kind: signal.KindTrigger})
	ctrl.Run(context.Background(), &st, Inputs{Credential: "sk"})
	if !st.Snapshot().Trigger {
		t.Fatal("trigger should stay pending after a warning")
	}
	Apply(&st, signal.Event{Kind: signal.KindSelection, Text: "enzymes"})
	res := ctrl.Run(context.Background(), &st, Inputs{Credential: "sk", Selection: st.Snapshot().Selection})
	if !res.Generated {
		t.Fatal("pending trigger should fire once the selection arrives")
	}
}

func TestDecideBusyWhileInFlight(t *testing.T) {
	var st session.State
	in := Inputs{Credential: "sk", Selection: "x", Pressed: true}
	if d := Decide(&st, in); d.Action != ActionGenerate {
		t.Fatalf("expected generate, got %v", d.Action)
	}
	if PhaseOf(&st, in) != PhaseGenerating {
		t.Fatal("expected generating phase")
	}
	if d := Decide(&st, in); d.Action != ActionBusy {
		t.Fatalf("expected busy, got %v", d.Action)
	}
	Finish(&st)
	if PhaseOf(&st, in) != PhaseReady {
		t.Fatal("expected ready phase after finish")
	}
}

func TestPhaseAwaitingInputs(t *testing.T) {
	var st session.State
	if PhaseOf(&st, Inputs{Selection: "x"}) != PhaseAwaitingInputs {
		t.Fatal("expected awaiting inputs without credential")
	}
}

func TestApplyDocumentClearsSelection(t *testing.T) {
	var st session.State
	Apply(&st, signal.Event{Kind: signal.KindSelection, Text: "old"})
	Apply(&st, signal.Event{Kind: signal.KindDocument, Text: "page one\n"})
	snap := st.Snapshot()
	if snap.Selection != "" || snap.Text != "page one\n" {
		t.Fatalf("unexpected state: selection=%q text=%q", snap.Selection, snap.Text)
	}
}

func TestWarningText(t *testing.T) {
	hu := locale.MustLookup("hu")
	if WarningText(hu, WarningEmptySelection) != hu.WarnEmptySelection {
		t.Fatal("wrong hungarian warning")
	}
	if WarningText(hu, WarningNone) != "" {
		t.Fatal("expected empty text for no warning")
	}
}
