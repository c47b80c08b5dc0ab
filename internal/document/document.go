package document

import "time"

// Document is one input file after extraction: an identifier plus an
// ordered sequence of pages. Immutable once built.
type Document struct {
	ID    string // Source filename.
	Pages []Page
}

// Page is a single extracted page with optional heading candidates.
type Page struct {
	Number   int // 1-based.
	Text     string
	Headings []HeadingHint
}

// HeadingHint is a candidate section heading found on a page.
type HeadingHint struct {
	Text  string
	Order int // Position among the page's candidates.
}

// Section is a bounded, titled span of a Document's text, the unit of
// ranking. Score is assigned once by the scorer and read-only after.
type Section struct {
	DocumentID string
	Title      string
	Content    string
	// Lead is the overlap tail carried from the previous section. It
	// participates in scoring but is never surfaced as output text.
	Lead       string
	Pages      []int // Source page numbers, ascending.
	BuildOrder int   // Sequence within the document.

	// PageOffsets maps content byte offsets to source pages: offset i
	// belongs to the page of the last entry whose Start <= i.
	PageOffsets []PageOffset

	Score float64
}

// PageOffset marks where a source page's text begins within Section content.
type PageOffset struct {
	Start int
	Page  int
}

// ScoringText is the text projected into the vector space. It carries
// the cross-boundary overlap so context is not lost at section edges.
func (s *Section) ScoringText() string {
	if s.Lead == "" {
		return s.Content
	}
	return s.Lead + " " + s.Content
}

// PageAt returns the source page containing the given content offset.
func (s *Section) PageAt(offset int) int {
	page := 0
	if len(s.Pages) > 0 {
		page = s.Pages[0]
	}
	for _, po := range s.PageOffsets {
		if po.Start > offset {
			break
		}
		page = po.Page
	}
	return page
}

// Query is the persona role and job-to-be-done, fixed for a run.
type Query struct {
	Persona string
	Job     string
}

// Text returns the concatenated query string used for scoring.
func (q Query) Text() string {
	return q.Persona + " " + q.Job
}

// ScoredSection is a Section with its final rank assignment.
type ScoredSection struct {
	Section *Section
	Score   float64
	Rank    int // 1-based, unique, contiguous.
}

// Excerpt is the highest-scoring sub-span of a selected section.
type Excerpt struct {
	DocumentID string
	Text       string
	Page       int
	Score      float64
}

// RunResult is the immutable outcome of one pipeline run.
type RunResult struct {
	Query          Query
	InputDocuments []string // Original input order, including skipped files.
	// Skipped lists documents that failed extraction. A non-empty list
	// marks the run partial rather than failed.
	Skipped     []string
	Sections    []ScoredSection
	Excerpts    []Excerpt
	ProcessedAt time.Time
}
