package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownExtractor handles Markdown files using goldmark.
// Markdown has no physical pages; each top-level heading starts a new
// logical page so downstream page attribution stays meaningful.
type MarkdownExtractor struct{}

func (p *MarkdownExtractor) Extract(r io.Reader, filename string) ([]document.Page, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	doc := md.Parser().Parse(reader)

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

	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(src))
			if node.Level == 1 && buf.Len() > 0 {
				flushPage()
			}
			hints = append(hints, document.HeadingHint{Text: title, Order: len(hints)})
			if buf.Len() > 0 {
				buf.WriteString("\n\n")
			}
			buf.WriteString(title)
		default:
			t := markdownText(n, src)
			if t != "" {
				if buf.Len() > 0 {
					buf.WriteString("\n\n")
				}
				buf.WriteString(t)
			}
		}
	}
	flushPage()

	return pages, nil
}

// markdownText gets the text content of a goldmark AST node. A block
// node's source lines already cover its inline children, so a node
// contributes either its lines or its children, never both.
func markdownText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		part := markdownText(c, src)
		if part != "" {
			if buf.Len() > 0 {
				buf.WriteByte('\n')
			}
			buf.WriteString(part)
		}
	}
	return strings.TrimSpace(buf.String())
}
