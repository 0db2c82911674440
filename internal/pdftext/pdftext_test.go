package pdftext

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csheth/pdfask/internal/pdftext/pdftest"
)

// drawn is the text the parser reports for a page with one text object: the
// object's BT starts a new line.
func drawn(text string) string {
	return "\n" + text
}

func TestExtractBytesConcatenatesPagesInOrder(t *testing.T) {
	pages := []string{"First page text", "Second page (with parens)", "Third"}
	doc, err := ExtractBytes(pdftest.Build(pages...))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if doc.PageCount() != len(pages) {
		t.Fatalf("expected %d pages, got %d", len(pages), doc.PageCount())
	}
	var want strings.Builder
	for i, page := range pages {
		if doc.Pages[i] != drawn(page) {
			t.Fatalf("page %d: want %q, got %q", i+1, drawn(page), doc.Pages[i])
		}
		want.WriteString(drawn(page) + "\n")
	}
	if got := doc.Text(); got != want.String() {
		t.Fatalf("unexpected text\nwant %q\ngot  %q", want.String(), got)
	}
}

func TestExtractKeepsEmptyPagesAsNewlines(t *testing.T) {
	doc, err := ExtractBytes(pdftest.Build("one", "", "three"))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if doc.PageCount() != 3 || doc.Pages[1] != "" {
		t.Fatalf("unexpected pages %q", doc.Pages)
	}
	if got := doc.Text(); got != "\none\n\n\nthree\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractResolvesFontsPerPage(t *testing.T) {
	// Both pages name their font /F1, but page two's maps code 65 to Z.
	remapped := pdftest.Font{Encoding: "<< /Type /Encoding /Differences [65 /Z] >>"}
	data := pdftest.BuildPages(
		pdftest.Page{Text: "A", Font: pdftest.WinAnsi},
		pdftest.Page{Text: "A", Font: remapped},
		pdftest.Page{Text: "A", Font: pdftest.WinAnsi},
	)
	doc, err := ExtractBytes(data)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got := doc.Text(); got != "\nA\n\nZ\n\nA\n" {
		t.Fatalf("pages decoded with the wrong font: %q", got)
	}
}

func TestExtractUsesToUnicodeWithoutEncoding(t *testing.T) {
	cmap := strings.Join([]string{
		"/CIDInit /ProcSet findresource begin",
		"12 dict begin",
		"begincmap",
		"/CMapName /Test-UCS def",
		"1 begincodespacerange",
		"<00> <FF>",
		"endcodespacerange",
		"1 beginbfchar",
		"<41> <0042>",
		"endbfchar",
		"endcmap",
		"CMapName currentdict /CMap defineresource pop",
		"end",
		"end",
	}, "\n")
	data := pdftest.BuildPages(
		pdftest.Page{Text: "A", Font: pdftest.WinAnsi},
		pdftest.Page{Text: "A", Font: pdftest.Font{ToUnicode: cmap}},
	)
	doc, err := ExtractBytes(data)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if doc.Pages[0] != drawn("A") || doc.Pages[1] != drawn("B") {
		t.Fatalf("unexpected pages %q", doc.Pages)
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.pdf")
	if err := pdftest.WriteFile(path, "alpha", "beta"); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	doc, err := ExtractFile(path)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if got := doc.Text(); got != "\nalpha\n\nbeta\n" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractFileMissing(t *testing.T) {
	_, err := ExtractFile(filepath.Join(t.TempDir(), "missing.pdf"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestExtractReader(t *testing.T) {
	doc, err := ExtractReader(bytes.NewReader(pdftest.Build("streamed")))
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if doc.Text() != drawn("streamed")+"\n" {
		t.Fatalf("unexpected text %q", doc.Text())
	}
}

func TestExtractRejectsEmptyInput(t *testing.T) {
	if _, err := ExtractBytes(nil); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestExtractRejectsNonPDF(t *testing.T) {
	garbage := []byte(strings.Repeat("this is not a pdf at all ", 10))
	_, err := ExtractBytes(garbage)
	if err == nil {
		t.Fatal("expected error for non-pdf input")
	}
	if !strings.Contains(err.Error(), "open pdf") {
		t.Fatalf("expected open pdf error, got %v", err)
	}
}

func TestDocumentTextIsStable(t *testing.T) {
	doc := Document{Pages: []string{"a", "b"}}
	if doc.Text() != doc.Text() {
		t.Fatal("text should be deterministic")
	}
	if (Document{}).Text() != "" {
		t.Fatal("empty document should produce empty text")
	}
}
