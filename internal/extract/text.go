package extract

import (
	"bufio"
	"io"
	"strings"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
)

// TextExtractor handles plain text files. Form feeds separate pages;
// without them, the whole file is a single page. Plain text carries no
// style information, so no heading candidates are produced.
type TextExtractor struct{}

func (p *TextExtractor) Extract(r io.Reader, filename string) ([]document.Page, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var sb strings.Builder
	for scanner.Scan() {
		sb.WriteString(scanner.Text())
		sb.WriteString("\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	var pages []document.Page
	for _, raw := range strings.Split(sb.String(), "\f") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		pages = append(pages, document.Page{
			Number: len(pages) + 1,
			Text:   raw,
		})
	}
	return pages, nil
}
