// Package locale holds every user-facing string and the model's response
// language instruction, keyed by a single locale code.
package locale

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultCode is used when no locale is configured.
const DefaultCode = "en"

// ErrUnknown is returned by Lookup for codes that have no catalogue.
var ErrUnknown = errors.New("unknown locale")

// Locale is one catalogue of interface strings plus the prompt templates.
type Locale struct {
	Code string

	Title            string
	Disclaimer       string
	CredentialPrompt string
	UploadPrompt     string
	SelectionLabel   string
	SelectedEcho     string
	CategoryPrompt   string
	Categories       []string
	GenerateLabel    string
	BusyText         string
	AnswerHeading    string
	ResetLabel       string
	PagesLabel       string

	WarnMissingCredential string
	WarnEmptySelection    string

	// ErrorFormat receives the provider error text through a single %s verb.
	ErrorFormat string

	SystemInstruction string
	// UserTemplate receives the category then the highlighted text.
	UserTemplate string

	HintOpen       string
	HintExtracting string
	HintLoaded     string
	HintPasted     string
	HintCaptured   string
	HintClipboard  string
	HintField      string
	HintHighlight  string

	Keys []KeyHint
}

// KeyHint is one row of the terminal key legend.
type KeyHint struct {
	Key         string
	Description string
}

var catalogue = map[string]Locale{
	"en": english,
	"hu": hungarian,
}

var english = Locale{
	Code:             "en",
	Title:            "PDF Highlighter and Detailed Answer Generator",
	Disclaimer:       "No responsibility is taken for the answers. Answers are for information only.",
	CredentialPrompt: "Enter your OpenAI API key:",
	UploadPrompt:     "Choose a PDF file",
	SelectionLabel:   "Highlighted text:",
	SelectedEcho:     "Selected text: ",
	CategoryPrompt:   "Choose the question type:",
	Categories:       []string{"How", "Why", "Details"},
	GenerateLabel:    "Generate Answer",
	BusyText:         "Generating answer…",
	AnswerHeading:    "Detailed Answer",
	ResetLabel:       "Start over",
	PagesLabel:       "pages",

	WarnMissingCredential: "Please enter your OpenAI API key.",
	WarnEmptySelection:    "Please highlight text first.",

	ErrorFormat: "Error: Failed to get a response from the AI provider. Error: %s",

	SystemInstruction: "You are a helpful assistant that provides detailed answers in English language. Always respond in English, regardless of the input language.",
	UserTemplate:      "Provide a detailed answer in English to the following question: %s about '%s'. Include explanations and examples if relevant.",

	HintOpen:       "Press o to open a PDF.",
	HintExtracting: "Extracting %s…",
	HintLoaded:     "Loaded %s (%d pages). Press v to highlight, s to type a selection, R to generate.",
	HintPasted:     "Selection pasted from the clipboard.",
	HintCaptured:   "Highlighted lines captured as the selection.",
	HintClipboard:  "Clipboard unavailable: %v",
	HintField:      "Enter to confirm, Esc to leave the field.",
	HintHighlight:  "Highlight mode: move with ↑/↓, press y to capture.",

	Keys: []KeyHint{
		{"o", "Open PDF"},
		{"k", "API key"},
		{"s", "Type selection"},
		{"v / y", "Highlight / capture"},
		{"p", "Paste clipboard"},
		{"c, 1-3", "Question type"},
		{"g", "Generate"},
		{"R", "Generate (shortcut)"},
		{"↑/↓", "Scroll"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	},
}

var hungarian = Locale{
	Code:             "hu",
	Title:            "Orvosi PDF Szövegkiemelő és Részletes Válaszgenerátor",
	Disclaimer:       "A válaszokért semmilyen feleősséget nem vállalunk. A válaszok tájékoztató jellegűek",
	CredentialPrompt: "Írd be az OpenAI API kulcsodat:",
	UploadPrompt:     "Válassz egy PDF fájlt",
	SelectionLabel:   "Kiemelt szöveg:",
	SelectedEcho:     "Kijelölt szöveg: ",
	CategoryPrompt:   "Válaszd ki a kérdés típusát:",
	Categories:       []string{"Hogyan", "Miért", "Részletek"},
	GenerateLabel:    "Válasz Generálása",
	BusyText:         "Válasz generálása folyamatban...",
	AnswerHeading:    "Részletes Válasz",
	ResetLabel:       "Újrakezdés",
	PagesLabel:       "oldal",

	WarnMissingCredential: "Kérlek, add meg az OpenAI API kulcsodat.",
	WarnEmptySelection:    "Kérlek, előbb jelölj ki szöveget.",

	ErrorFormat: "Hiba: Nem sikerült választ kapni az OpenAI API-tól. Hiba: %s",

	SystemInstruction: "You are a helpful assistant that provides detailed answers in Hungarian language. Always respond in Hungarian, regardless of the input language.",
	UserTemplate:      "Provide a detailed answer in Hungarian to the following question: %s about '%s'. Include explanations and examples if relevant.",

	HintOpen:       "Nyomd meg az o billentyűt egy PDF megnyitásához.",
	HintExtracting: "%s feldolgozása…",
	HintLoaded:     "Betöltve: %s (%d oldal). v: kiemelés, s: kijelölés gépelése, R: generálás.",
	HintPasted:     "Kijelölés beillesztve a vágólapról.",
	HintCaptured:   "A kiemelt sorok lettek a kijelölés.",
	HintClipboard:  "A vágólap nem érhető el: %v",
	HintField:      "Enter: jóváhagyás, Esc: kilépés a mezőből.",
	HintHighlight:  "Kiemelés: mozgás ↑/↓, y: rögzítés.",

	Keys: []KeyHint{
		{"o", "PDF megnyitása"},
		{"k", "API kulcs"},
		{"s", "Kijelölés gépelése"},
		{"v / y", "Kiemelés / rögzítés"},
		{"p", "Beillesztés vágólapról"},
		{"c, 1-3", "Kérdés típusa"},
		{"g", "Generálás"},
		{"R", "Generálás (gyorsbillentyű)"},
		{"↑/↓", "Görgetés"},
		{"?", "Súgó"},
		{"q", "Kilépés"},
	},
}

// Lookup returns the catalogue for code. An empty code selects DefaultCode.
func Lookup(code string) (Locale, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		code = DefaultCode
	}
	loc, ok := catalogue[code]
	if !ok {
		return Locale{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknown, code, strings.Join(Codes(), ", "))
	}
	loc.Categories = append([]string(nil), loc.Categories...)
	loc.Keys = append([]KeyHint(nil), loc.Keys...)
	return loc, nil
}

// MustLookup is Lookup for codes known at compile time.
func MustLookup(code string) Locale {
	loc, err := Lookup(code)
	if err != nil {
		panic(err)
	}
	return loc
}

// Codes lists the available locale codes in sorted order.
func Codes() []string {
	codes := make([]string, 0, len(catalogue))
	for code := range catalogue {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Category normalises label to one of the locale's categories. Unknown labels
// map to the first category.
func (l Locale) Category(label string) string {
	label = strings.TrimSpace(label)
	for _, c := range l.Categories {
		if strings.EqualFold(c, label) {
			return c
		}
	}
	if len(l.Categories) == 0 {
		return label
	}
	return l.Categories[0]
}

// CategoryIndex reports the position of label within Categories, or 0.
func (l Locale) CategoryIndex(label string) int {
	label = l.Category(label)
	for i, c := range l.Categories {
		if c == label {
			return i
		}
	}
	return 0
}

// UserMessage interpolates category and highlighted text verbatim.
func (l Locale) UserMessage(category, highlighted string) string {
	return fmt.Sprintf(l.UserTemplate, category, highlighted)
}

// FormatError renders a provider failure as an in-band answer.
func (l Locale) FormatError(err error) string {
	msg := "<nil>"
	if err != nil {
		msg = err.Error()
	}
	return fmt.Sprintf(l.ErrorFormat, msg)
}
