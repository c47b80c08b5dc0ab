package sectioner

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/config"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
)

// segment is a run of page text attributed to a single page, optionally
// introduced by a heading candidate.
type segment struct {
	text    string
	page    int
	heading string
}

// Build walks a document's pages and produces ordered sections with
// bounded content. Heading candidates and the max chunk size both force
// section boundaries; content below the minimum length is merged into a
// neighbor. A document with no usable text yields an empty slice.
func Build(doc document.Document, opts config.Options) []document.Section {
	segs := segmentPages(doc.Pages)
	if len(segs) == 0 {
		return nil
	}

	b := builder{
		docID: doc.ID,
		opts:  opts,
	}
	for _, seg := range segs {
		b.add(seg)
	}
	b.finish()

	assignTitles(doc.ID, b.sections)
	return b.sections
}

// segmentPages splits each page at its heading candidates, preserving
// page attribution for every run of text.
func segmentPages(pages []document.Page) []segment {
	var segs []segment
	for _, page := range pages {
		text := page.Text
		if strings.TrimSpace(text) == "" {
			continue
		}
		cuts := headingCuts(text, page.Headings)
		if len(cuts) == 0 {
			segs = append(segs, segment{text: text, page: page.Number})
			continue
		}
		if cuts[0].start > 0 {
			segs = append(segs, segment{text: text[:cuts[0].start], page: page.Number})
		}
		for i, cut := range cuts {
			end := len(text)
			if i+1 < len(cuts) {
				end = cuts[i+1].start
			}
			segs = append(segs, segment{
				text:    text[cut.start:end],
				page:    page.Number,
				heading: cut.heading,
			})
		}
	}
	return segs
}

type cut struct {
	start   int
	heading string
}

// headingCuts locates each heading candidate within the page text.
// Candidates that cannot be found are ignored.
func headingCuts(text string, hints []document.HeadingHint) []cut {
	var cuts []cut
	searchFrom := 0
	for _, h := range hints {
		needle := strings.TrimSpace(h.Text)
		if needle == "" {
			continue
		}
		idx := strings.Index(text[searchFrom:], needle)
		if idx < 0 {
			continue
		}
		start := searchFrom + idx
		cuts = append(cuts, cut{start: start, heading: needle})
		searchFrom = start + len(needle)
	}
	return cuts
}

// builder accumulates segments into sections, applying the split and
// merge rules.
type builder struct {
	docID string
	opts  config.Options

	sections []document.Section

	content  strings.Builder
	offsets  []document.PageOffset
	pages    []int
	title    string
	nextLead string
}

func (b *builder) add(seg segment) {
	text := strings.TrimSpace(seg.text)
	if text == "" {
		return
	}

	// A heading closes the running section, unless that section is
	// still below the minimum length, in which case it merges forward.
	if seg.heading != "" && b.content.Len() >= b.opts.MinSectionLength {
		b.close()
	}
	if seg.heading != "" && b.title == "" {
		b.title = seg.heading
	}

	for len(text) > 0 {
		room := b.opts.MaxChunkSize - b.content.Len()
		if b.content.Len() > 0 {
			// Account for the separator append will insert.
			room -= 2
		}
		if room <= 0 {
			b.close()
			room = b.opts.MaxChunkSize
		}
		piece := text
		if len(piece) > room {
			split := breakPoint(piece, room)
			piece, text = piece[:split], strings.TrimSpace(piece[split:])
		} else {
			text = ""
		}
		b.append(piece, seg.page)
		// A truncated piece fills its section; the remainder starts fresh.
		if len(text) > 0 {
			b.close()
		}
	}
}

// append writes a piece of page text into the running section,
// recording page membership and the offset at which the page begins.
func (b *builder) append(piece string, page int) {
	if b.content.Len() > 0 {
		b.content.WriteString("\n\n")
	}
	if len(b.pages) == 0 || b.pages[len(b.pages)-1] != page {
		b.pages = append(b.pages, page)
		b.offsets = append(b.offsets, document.PageOffset{Start: b.content.Len(), Page: page})
	}
	b.content.WriteString(piece)
}

// close emits the running section and seeds the next one's overlap.
func (b *builder) close() {
	content := b.content.String()
	if strings.TrimSpace(content) == "" {
		b.reset()
		return
	}
	sec := document.Section{
		DocumentID:  b.docID,
		Title:       b.title,
		Content:     content,
		Lead:        b.nextLead,
		Pages:       b.pages,
		PageOffsets: b.offsets,
		BuildOrder:  len(b.sections),
	}
	b.sections = append(b.sections, sec)
	b.nextLead = tailOverlap(content, b.opts.OverlapSize)
	b.reset()
}

func (b *builder) reset() {
	b.content.Reset()
	b.offsets = nil
	b.pages = nil
	b.title = ""
}

// finish flushes the remainder. A final fragment below the minimum
// length merges backward into the previous section; if it is the only
// content for the document, it stands alone.
func (b *builder) finish() {
	if b.content.Len() == 0 {
		return
	}
	if b.content.Len() < b.opts.MinSectionLength && len(b.sections) > 0 {
		prev := &b.sections[len(b.sections)-1]
		start := len(prev.Content) + 2
		prev.Content += "\n\n" + b.content.String()
		for i, p := range b.pages {
			if len(prev.Pages) == 0 || prev.Pages[len(prev.Pages)-1] != p {
				prev.Pages = append(prev.Pages, p)
				prev.PageOffsets = append(prev.PageOffsets, document.PageOffset{
					Start: start + b.offsets[i].Start,
					Page:  p,
				})
			}
		}
		b.reset()
		return
	}
	b.close()
}

// breakPoint finds a split position at or before limit, preferring a
// whitespace boundary and never splitting a UTF-8 sequence.
func breakPoint(text string, limit int) int {
	if limit >= len(text) {
		return len(text)
	}
	for i := limit; i > limit/2; i-- {
		if text[i] == ' ' || text[i] == '\n' {
			return i
		}
	}
	// No whitespace nearby; back off to a rune boundary.
	i := limit
	for i > 0 && !utf8.RuneStart(text[i]) {
		i--
	}
	return i
}

// tailOverlap returns the last n bytes of content on a rune boundary.
func tailOverlap(content string, n int) string {
	if n <= 0 || len(content) <= n {
		if n <= 0 {
			return ""
		}
		return content
	}
	i := len(content) - n
	for i < len(content) && !utf8.RuneStart(content[i]) {
		i++
	}
	return content[i:]
}

// assignTitles fills in synthesized titles and disambiguates
// collisions within the document by appending the first page number.
func assignTitles(docID string, sections []document.Section) {
	seen := make(map[string]bool, len(sections))
	for i := range sections {
		sec := &sections[i]
		title := sec.Title
		if title == "" {
			page := 0
			if len(sec.Pages) > 0 {
				page = sec.Pages[0]
			}
			title = fmt.Sprintf("%s - page %d", docID, page)
		}
		if seen[title] {
			page := 0
			if len(sec.Pages) > 0 {
				page = sec.Pages[0]
			}
			title = fmt.Sprintf("%s (page %d)", title, page)
		}
		for seen[title] {
			title = fmt.Sprintf("%s #%d", title, sec.BuildOrder)
		}
		seen[title] = true
		sec.Title = title
	}
}
