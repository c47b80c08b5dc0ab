package sectioner

import (
	"strings"
	"testing"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/config"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
)

func testOptions() config.Options {
	opts := config.DefaultOptions()
	opts.MinSectionLength = 10
	return opts
}

func TestBuild_EmptyDocument(t *testing.T) {
	docs := []document.Document{
		{ID: "empty.txt"},
		{ID: "blank.txt", Pages: []document.Page{{Number: 1, Text: "   \n\t  "}}},
	}
	for _, doc := range docs {
		if got := Build(doc, testOptions()); len(got) != 0 {
			t.Errorf("%s: expected no sections, got %d", doc.ID, len(got))
		}
	}
}

func TestBuild_SinglePageSingleSection(t *testing.T) {
	doc := document.Document{
		ID: "guide.txt",
		Pages: []document.Page{
			{Number: 1, Text: "A short guide to planning a coastal trip."},
		},
	}
	secs := Build(doc, testOptions())
	if len(secs) != 1 {
		t.Fatalf("expected 1 section, got %d", len(secs))
	}
	sec := secs[0]
	if sec.Content != "A short guide to planning a coastal trip." {
		t.Errorf("unexpected content: %q", sec.Content)
	}
	if sec.Title != "guide.txt - page 1" {
		t.Errorf("expected synthesized title, got %q", sec.Title)
	}
	if sec.Lead != "" {
		t.Errorf("first section should carry no lead, got %q", sec.Lead)
	}
	if len(sec.Pages) != 1 || sec.Pages[0] != 1 {
		t.Errorf("expected pages [1], got %v", sec.Pages)
	}
	if sec.BuildOrder != 0 {
		t.Errorf("expected build order 0, got %d", sec.BuildOrder)
	}
}

func TestBuild_HeadingSplitsSection(t *testing.T) {
	doc := document.Document{
		ID: "guide.txt",
		Pages: []document.Page{
			{
				Number: 1,
				Text:   "Opening remarks about the region. Coastal Adventures\nThe coast offers kayaking and diving trips.",
				Headings: []document.HeadingHint{
					{Text: "Coastal Adventures", Order: 0},
				},
			},
		},
	}
	secs := Build(doc, testOptions())
	if len(secs) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(secs))
	}
	if secs[0].Title != "guide.txt - page 1" {
		t.Errorf("expected synthesized title for preamble, got %q", secs[0].Title)
	}
	if secs[1].Title != "Coastal Adventures" {
		t.Errorf("expected heading title, got %q", secs[1].Title)
	}
	if !strings.HasPrefix(secs[1].Content, "Coastal Adventures") {
		t.Errorf("heading text should open its section, got %q", secs[1].Content)
	}
	// The second section carries the tail of the first as scoring context.
	if secs[1].Lead == "" {
		t.Error("expected overlap lead on the second section")
	}
	if !strings.HasSuffix(secs[0].Content, secs[1].Lead) {
		t.Errorf("lead %q is not a tail of the previous content", secs[1].Lead)
	}
	if strings.Contains(secs[1].Content, secs[1].Lead) {
		t.Errorf("lead leaked into surfaced content: %q", secs[1].Content)
	}
}

func TestBuild_UnlocatableHeadingIgnored(t *testing.T) {
	doc := document.Document{
		ID: "guide.txt",
		Pages: []document.Page{
			{
				Number:   1,
				Text:     "No such heading appears anywhere in this text body.",
				Headings: []document.HeadingHint{{Text: "Phantom Heading", Order: 0}},
			},
		},
	}
	secs := Build(doc, testOptions())
	if len(secs) != 1 {
		t.Fatalf("expected 1 section, got %d", len(secs))
	}
	if secs[0].Title != "guide.txt - page 1" {
		t.Errorf("expected synthesized title, got %q", secs[0].Title)
	}
}

func TestBuild_OversizeContentSplits(t *testing.T) {
	opts := testOptions()
	opts.MaxChunkSize = 80
	opts.OverlapSize = 20

	text := strings.Repeat("wandering through the old town market squares ", 10)
	doc := document.Document{
		ID:    "long.txt",
		Pages: []document.Page{{Number: 1, Text: text}},
	}
	secs := Build(doc, opts)
	if len(secs) < 2 {
		t.Fatalf("expected multiple sections, got %d", len(secs))
	}
	for i, sec := range secs {
		if len(sec.Content) > opts.MaxChunkSize {
			t.Errorf("section %d: content length %d exceeds limit %d", i, len(sec.Content), opts.MaxChunkSize)
		}
		if sec.BuildOrder != i {
			t.Errorf("section %d: expected build order %d, got %d", i, i, sec.BuildOrder)
		}
		if i > 0 {
			if sec.Lead == "" {
				t.Errorf("section %d: expected overlap lead", i)
			}
			if len(sec.Lead) > opts.OverlapSize {
				t.Errorf("section %d: lead length %d exceeds overlap %d", i, len(sec.Lead), opts.OverlapSize)
			}
			if !strings.HasSuffix(secs[i-1].Content, sec.Lead) {
				t.Errorf("section %d: lead is not the previous section's tail", i)
			}
		}
	}
}

func TestBuild_TitlesUniqueWithinDocument(t *testing.T) {
	opts := testOptions()
	opts.MaxChunkSize = 60
	opts.OverlapSize = 10

	text := strings.Repeat("repeated filler text for the splitter ", 8)
	doc := document.Document{
		ID:    "dup.txt",
		Pages: []document.Page{{Number: 1, Text: text}},
	}
	secs := Build(doc, opts)
	if len(secs) < 3 {
		t.Fatalf("expected at least 3 sections, got %d", len(secs))
	}
	seen := make(map[string]bool)
	for i, sec := range secs {
		if sec.Title == "" {
			t.Errorf("section %d: empty title", i)
		}
		if seen[sec.Title] {
			t.Errorf("section %d: duplicate title %q", i, sec.Title)
		}
		seen[sec.Title] = true
	}
}

func TestBuild_ShortTrailingFragmentMergesBackward(t *testing.T) {
	opts := testOptions()
	opts.MinSectionLength = 20

	body := "The first part has plenty of text to stand on its own as a section."
	doc := document.Document{
		ID: "merge.txt",
		Pages: []document.Page{
			{
				Number: 1,
				Text:   "First Part\n" + body + " Last Bit\ntiny",
				Headings: []document.HeadingHint{
					{Text: "First Part", Order: 0},
					{Text: "Last Bit", Order: 1},
				},
			},
		},
	}
	secs := Build(doc, opts)
	if len(secs) != 1 {
		t.Fatalf("expected trailing fragment to merge backward, got %d sections", len(secs))
	}
	if secs[0].Title != "First Part" {
		t.Errorf("expected title from first heading, got %q", secs[0].Title)
	}
	if !strings.HasSuffix(secs[0].Content, "tiny") {
		t.Errorf("expected merged fragment at the end, got %q", secs[0].Content)
	}
}

func TestBuild_PageOffsetsTrackSourcePages(t *testing.T) {
	p1 := "Alpha page content describing the northern valley trails."
	p2 := "Beta page content covering the southern lake district."
	doc := document.Document{
		ID: "multi.txt",
		Pages: []document.Page{
			{Number: 1, Text: p1},
			{Number: 2, Text: p2},
		},
	}
	secs := Build(doc, testOptions())
	if len(secs) != 1 {
		t.Fatalf("expected 1 section, got %d", len(secs))
	}
	sec := secs[0]
	if len(sec.Pages) != 2 || sec.Pages[0] != 1 || sec.Pages[1] != 2 {
		t.Fatalf("expected pages [1 2], got %v", sec.Pages)
	}
	if got := sec.PageAt(0); got != 1 {
		t.Errorf("offset 0: expected page 1, got %d", got)
	}
	betaStart := strings.Index(sec.Content, "Beta")
	if betaStart < 0 {
		t.Fatalf("second page text missing from content")
	}
	if got := sec.PageAt(betaStart); got != 2 {
		t.Errorf("offset %d: expected page 2, got %d", betaStart, got)
	}
	if got := sec.PageAt(len(sec.Content) - 1); got != 2 {
		t.Errorf("final offset: expected page 2, got %d", got)
	}
}

func TestBuild_ScoringTextCarriesLead(t *testing.T) {
	opts := testOptions()
	opts.MaxChunkSize = 60
	opts.OverlapSize = 15

	text := strings.Repeat("overlapping section boundary context words ", 5)
	doc := document.Document{
		ID:    "lead.txt",
		Pages: []document.Page{{Number: 1, Text: text}},
	}
	secs := Build(doc, opts)
	if len(secs) < 2 {
		t.Fatalf("expected multiple sections, got %d", len(secs))
	}
	sec := secs[1]
	want := sec.Lead + " " + sec.Content
	if got := sec.ScoringText(); got != want {
		t.Errorf("expected scoring text %q, got %q", want, got)
	}
}
