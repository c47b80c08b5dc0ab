package extract

import (
	"errors"
	"strings"
	"testing"
)

func TestForFile_Dispatch(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"notes.txt", "*extract.TextExtractor"},
		{"readme.md", "*extract.MarkdownExtractor"},
		{"guide.markdown", "*extract.MarkdownExtractor"},
		{"page.html", "*extract.HTMLExtractor"},
		{"page.htm", "*extract.HTMLExtractor"},
		{"report.pdf", "*extract.PDFExtractor"},
		{"letter.docx", "*extract.DOCXExtractor"},
		{"REPORT.PDF", "*extract.PDFExtractor"},
	}
	for _, tc := range cases {
		ex, err := ForFile(tc.filename)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.filename, err)
			continue
		}
		var got string
		switch ex.(type) {
		case *TextExtractor:
			got = "*extract.TextExtractor"
		case *MarkdownExtractor:
			got = "*extract.MarkdownExtractor"
		case *HTMLExtractor:
			got = "*extract.HTMLExtractor"
		case *PDFExtractor:
			got = "*extract.PDFExtractor"
		case *DOCXExtractor:
			got = "*extract.DOCXExtractor"
		}
		if got != tc.want {
			t.Errorf("%s: expected %s, got %s", tc.filename, tc.want, got)
		}
	}
}

func TestForFile_Unsupported(t *testing.T) {
	for _, name := range []string{"data.bin", "archive.zip", "noext"} {
		if _, err := ForFile(name); err == nil {
			t.Errorf("%s: expected error for unsupported extension", name)
		}
	}
}

func TestIsSupportedExtension(t *testing.T) {
	if !IsSupportedExtension("doc.pdf") {
		t.Error("expected .pdf to be supported")
	}
	if IsSupportedExtension("doc.csv") {
		t.Error("expected .csv to be unsupported")
	}
}

func TestRun_WrapsFailures(t *testing.T) {
	_, err := Run(strings.NewReader("data"), "file.xyz", false)
	if err == nil {
		t.Fatal("expected error")
	}
	var exErr *ExtractionError
	if !errors.As(err, &exErr) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
	if exErr.Document != "file.xyz" {
		t.Errorf("expected document file.xyz, got %q", exErr.Document)
	}
	if exErr.Unwrap() == nil {
		t.Error("expected wrapped cause")
	}
}

func TestRun_TextDocument(t *testing.T) {
	doc, err := Run(strings.NewReader("first line\nsecond line"), "notes.txt", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID != "notes.txt" {
		t.Errorf("expected ID notes.txt, got %q", doc.ID)
	}
	if len(doc.Pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(doc.Pages))
	}
}
