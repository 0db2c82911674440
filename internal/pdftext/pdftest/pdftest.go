// Package pdftest builds small, valid PDF files for tests. Each page carries
// one line of text drawn with a Type1 Helvetica font named /F1 in the page's
// own resources.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"strings"
)

// Font describes the /F1 font dictionary of a page. Pages with equal fonts
// share one font object.
type Font struct {
	// Encoding is the raw /Encoding value, omitted when empty.
	Encoding string
	// ToUnicode is a CMap program stored as the font's /ToUnicode stream,
	// omitted when empty.
	ToUnicode string
}

// WinAnsi is the font Build uses for every page.
var WinAnsi = Font{Encoding: "/WinAnsiEncoding"}

// Page is one page of a document built by BuildPages. An empty Text gives a
// page without a content stream.
type Page struct {
	Text string
	Font Font
}

// Build returns a PDF whose pages show the given texts in order, all sharing
// one WinAnsi font object.
func Build(pages ...string) []byte {
	specs := make([]Page, len(pages))
	for i, text := range pages {
		specs[i] = Page{Text: text, Font: WinAnsi}
	}
	return BuildPages(specs...)
}

// BuildPages returns a PDF with the given pages in order.
func BuildPages(pages ...Page) []byte {
	// Object numbers are assigned up front so the page tree can refer forward.
	next := 3
	alloc := func() int {
		id := next
		next++
		return id
	}

	type fontObj struct {
		id, cmapID int
	}
	fonts := make(map[Font]fontObj)
	var fontOrder []Font
	for _, p := range pages {
		if _, ok := fonts[p.Font]; ok {
			continue
		}
		obj := fontObj{id: alloc()}
		if p.Font.ToUnicode != "" {
			obj.cmapID = alloc()
		}
		fonts[p.Font] = obj
		fontOrder = append(fontOrder, p.Font)
	}

	type pageObj struct {
		id, contentID int
	}
	pageObjs := make([]pageObj, len(pages))
	kids := make([]string, len(pages))
	for i, p := range pages {
		pageObjs[i].id = alloc()
		if p.Text != "" {
			pageObjs[i].contentID = alloc()
		}
		kids[i] = fmt.Sprintf("%d 0 R", pageObjs[i].id)
	}

	bodies := make([]string, next)
	bodies[1] = "<< /Type /Catalog /Pages 2 0 R >>"
	bodies[2] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))
	for _, f := range fontOrder {
		obj := fonts[f]
		dict := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica"
		if f.Encoding != "" {
			dict += " /Encoding " + f.Encoding
		}
		if obj.cmapID != 0 {
			dict += fmt.Sprintf(" /ToUnicode %d 0 R", obj.cmapID)
			bodies[obj.cmapID] = stream(f.ToUnicode)
		}
		bodies[obj.id] = dict + " >>"
	}
	for i, p := range pages {
		obj := pageObjs[i]
		page := fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >>",
			fonts[p.Font].id,
		)
		if obj.contentID != 0 {
			page += fmt.Sprintf(" /Contents %d 0 R", obj.contentID)
			bodies[obj.contentID] = stream(fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", escape(p.Text)))
		}
		bodies[obj.id] = page + " >>"
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, next)
	for id := 1; id < next; id++ {
		offsets[id] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, bodies[id])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", next)
	buf.WriteString("0000000000 65535 f \n")
	for id := 1; id < next; id++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[id])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", next, xref)
	return buf.Bytes()
}

// WriteFile stores Build(pages...) at path.
func WriteFile(path string, pages ...string) error {
	return os.WriteFile(path, Build(pages...), 0o644)
}

func stream(content string) string {
	return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content)
}

func escape(text string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(text)
}
