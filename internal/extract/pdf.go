package extract

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"unicode"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	pdflib "github.com/ledongthuc/pdf"
)

// PDFExtractor handles PDF files. It tries the Go library first,
// then falls back to pdftotext if available.
type PDFExtractor struct {
	FallbackPdftotext bool
}

func (p *PDFExtractor) Extract(r io.Reader, filename string) ([]document.Page, error) {
	// ledongthuc/pdf requires a ReadSeeker+size, so we write to a temp file.
	tmp, err := os.CreateTemp("", "persadoc-pdf-*.pdf")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()

	text, err := extractPDFText(tmpPath)
	if err != nil && p.FallbackPdftotext {
		text, err = extractPdftotext(tmpPath)
	}
	if err != nil {
		return nil, fmt.Errorf("extract pdf text: %w", err)
	}

	var pages []document.Page
	for i, raw := range strings.Split(text, "\f") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		pages = append(pages, document.Page{
			Number:   i + 1,
			Text:     raw,
			Headings: headingCandidates(raw),
		})
	}
	return pages, nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if i > 1 {
			buf.WriteString("\f") // Form feed as page separator.
		}
		buf.WriteString(text)
	}
	return buf.String(), nil
}

func extractPdftotext(path string) (string, error) {
	cmd := exec.Command("pdftotext", "-layout", path, "-")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w", err)
	}
	return string(out), nil
}

// headingCandidates applies line-shape heuristics to plain page text.
// PDF extraction loses font information, so a heading is a short line
// that does not end in sentence punctuation and starts capitalized.
func headingCandidates(pageText string) []document.HeadingHint {
	var hints []document.HeadingHint
	order := 0
	for _, line := range strings.Split(pageText, "\n") {
		line = strings.TrimSpace(line)
		if !looksLikeHeading(line) {
			continue
		}
		hints = append(hints, document.HeadingHint{Text: line, Order: order})
		order++
	}
	return hints
}

func looksLikeHeading(line string) bool {
	if line == "" || len(line) > 80 {
		return false
	}
	runes := []rune(line)
	if !unicode.IsUpper(runes[0]) && !unicode.IsDigit(runes[0]) {
		return false
	}
	switch runes[len(runes)-1] {
	case '.', ',', ';', ':':
		return false
	}
	// Headings are a handful of words, not prose.
	words := strings.Fields(line)
	if len(words) > 12 {
		return false
	}
	// Require some letters; rules out page numbers and dividers.
	hasLetter := false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}
