// Package pdftext turns PDF bytes into page-ordered plain text.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrEmpty is returned when there are no bytes to parse.
var ErrEmpty = errors.New("empty pdf")

// Document is the extracted text of one PDF, one entry per page.
type Document struct {
	Pages []string
}

// Text concatenates the pages in order, each followed by exactly one newline.
func (d Document) Text() string {
	var b strings.Builder
	for _, page := range d.Pages {
		b.WriteString(page)
		b.WriteByte('\n')
	}
	return b.String()
}

// PageCount reports how many pages were extracted.
func (d Document) PageCount() int {
	return len(d.Pages)
}

// Extract opens r as a paged document and extracts every page's plain text.
// Any parse failure is returned; there is no partial result.
func Extract(r io.ReaderAt, size int64) (doc Document, err error) {
	if size <= 0 {
		return Document{}, ErrEmpty
	}
	// The parser signals some malformed inputs by panicking.
	defer func() {
		if rec := recover(); rec != nil {
			doc = Document{}
			err = fmt.Errorf("parse pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return Document{}, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	pages := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		// Font resource names are page-local; nil makes the page resolve its own.
		text, err := page.GetPlainText(nil)
		if err != nil {
			return Document{}, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, text)
	}
	return Document{Pages: pages}, nil
}

// ExtractBytes is Extract over an in-memory PDF.
func ExtractBytes(data []byte) (Document, error) {
	if len(data) == 0 {
		return Document{}, ErrEmpty
	}
	return Extract(bytes.NewReader(data), int64(len(data)))
}

// ExtractReader buffers r fully and extracts it. Callers bound r.
func ExtractReader(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read pdf: %w", err)
	}
	return ExtractBytes(data)
}

// ExtractFile extracts the PDF stored at path.
func ExtractFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Document{}, err
	}
	if info.IsDir() {
		return Document{}, fmt.Errorf("%s is a directory", path)
	}
	return Extract(f, info.Size())
}
