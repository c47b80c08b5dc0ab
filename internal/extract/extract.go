package extract

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
)

// Extractor converts raw document bytes into ordered pages with
// heading candidates. Implementations exist per file format.
type Extractor interface {
	Extract(r io.Reader, filename string) ([]document.Page, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate extractor for a filename.
func ForFile(filename string) (Extractor, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextExtractor{}, nil
	case ".md", ".markdown":
		return &MarkdownExtractor{}, nil
	case ".html", ".htm":
		return &HTMLExtractor{}, nil
	case ".pdf":
		return &PDFExtractor{}, nil
	case ".docx":
		return &DOCXExtractor{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// ExtractionError marks a document whose text could not be obtained.
// The run skips the document rather than aborting.
type ExtractionError struct {
	Document string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Document, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Run extracts a single document, wrapping any failure. pdfFallback
// enables the pdftotext fallback for PDF inputs.
func Run(r io.Reader, filename string, pdfFallback bool) (document.Document, error) {
	ex, err := ForFile(filename)
	if err != nil {
		return document.Document{}, &ExtractionError{Document: filename, Err: err}
	}
	if p, ok := ex.(*PDFExtractor); ok {
		p.FallbackPdftotext = pdfFallback
	}
	pages, err := ex.Extract(r, filename)
	if err != nil {
		return document.Document{}, &ExtractionError{Document: filename, Err: err}
	}
	return document.Document{ID: filename, Pages: pages}, nil
}
