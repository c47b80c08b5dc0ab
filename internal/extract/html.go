package extract

import (
	"fmt"
	"io"
	"strings"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"golang.org/x/net/html"
)

// HTMLExtractor handles HTML files. Each h1 starts a new logical page;
// h1-h6 become heading candidates.
type HTMLExtractor struct{}

func (p *HTMLExtractor) Extract(r io.Reader, filename string) ([]document.Page, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
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

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				title := textContent(n)
				if title != "" {
					if level == 1 && buf.Len() > 0 {
						flushPage()
					}
					hints = append(hints, document.HeadingHint{Text: title, Order: len(hints)})
					if buf.Len() > 0 {
						buf.WriteString("\n\n")
					}
					buf.WriteString(title)
				}
				return
			}

			// Skip non-content elements.
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				t := textContent(n)
				if t != "" {
					if buf.Len() > 0 {
						buf.WriteString("\n\n")
					}
					buf.WriteString(t)
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	body := findBody(doc)
	if body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	flushPage()

	return pages, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
