package extract

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/fumiama/go-docx"
)

// DOCXExtractor handles .docx files. Heading-styled paragraphs become
// heading candidates; each Heading1 starts a new logical page.
type DOCXExtractor struct{}

func (p *DOCXExtractor) Extract(r io.Reader, filename string) ([]document.Page, error) {
	// go-docx needs a ReadSeeker+size, so write to temp file.
	tmp, err := os.CreateTemp("", "persadoc-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("seek temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, int64(size))
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	var pages []document.Page
	var buf strings.Builder
	var hints []document.HeadingHint

	flushPage := func() {
		t := strings.TrimSpace(buf.String())
		if t == "" && len(hints) == 0 {
			return
		}
		pages = append(pages, document.Page{
			Number:   len(pages) + 1,
			Text:     t,
			Headings: hints,
		})
		buf.Reset()
		hints = nil
	}

	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		level := docxHeadingLevel(para)
		text := docxParagraphText(para)
		if text == "" {
			continue
		}

		if level > 0 {
			if level == 1 && buf.Len() > 0 {
				flushPage()
			}
			hints = append(hints, document.HeadingHint{Text: text, Order: len(hints)})
		}
		if buf.Len() > 0 {
			buf.WriteString("\n\n")
		}
		buf.WriteString(text)
	}
	flushPage()

	return pages, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := para.Properties.Style.Val
	switch {
	case strings.EqualFold(style, "Heading1") || strings.EqualFold(style, "heading 1"):
		return 1
	case strings.EqualFold(style, "Heading2") || strings.EqualFold(style, "heading 2"):
		return 2
	case strings.EqualFold(style, "Heading3") || strings.EqualFold(style, "heading 3"):
		return 3
	case strings.EqualFold(style, "Heading4") || strings.EqualFold(style, "heading 4"):
		return 4
	case strings.EqualFold(style, "Heading5") || strings.EqualFold(style, "heading 5"):
		return 5
	case strings.EqualFold(style, "Heading6") || strings.EqualFold(style, "heading 6"):
		return 6
	}
	return 0
}

func docxParagraphText(para *docx.Paragraph) string {
	var buf strings.Builder
	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		for _, rc := range run.Children {
			if t, ok := rc.(*docx.Text); ok {
				buf.WriteString(t.Text)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
