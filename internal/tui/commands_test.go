package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/csheth/pdfask/internal/pdftext/pdftest"
)

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}

func TestExtractJobReadsGeneratedPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.pdf")
	if err := pdftest.WriteFile(path, "Mitochondria", "Ribosomes"); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	msg, err := extractJob(path)(context.Background())
	if err != nil {
		t.Fatalf("extract job failed: %v", err)
	}
	res := msg.(extractResultMsg)
	if res.doc.PageCount() != 2 || !strings.Contains(res.doc.Text(), "Ribosomes") {
		t.Fatalf("unexpected document %#v", res.doc)
	}
}

func TestExtractJobReportsMissingFile(t *testing.T) {
	msg, err := extractJob(filepath.Join(t.TempDir(), "missing.pdf"))(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if msg.(extractResultMsg).err == nil {
		t.Fatal("error should travel with the message")
	}
}

func TestExpandPath(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"  ":                "",
		`"/tmp/a b.pdf"`:    "/tmp/a b.pdf",
		"'./docs/../x.pdf'": "x.pdf",
	}
	for in, want := range cases {
		if got := expandPath(in); got != want {
			t.Fatalf("expandPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestJobBusIDsAreUnique(t *testing.T) {
	bus := newJobBus()
	first := bus.nextID(jobKindAnswer)
	second := bus.nextID(jobKindAnswer)
	if first == second || !strings.HasPrefix(first, "answer-") {
		t.Fatalf("unexpected ids %q %q", first, second)
	}
}
