package ranker

import (
	"sort"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/vectorspace"
)

// Score computes the query similarity for one section. Sections below
// any threshold are still scored so ranking sees full context.
func Score(query []float64, sec *document.Section, space vectorspace.Projector) float64 {
	return vectorspace.Cosine(query, space.Project(sec.ScoringText()))
}

// scored pairs a section with the order its document arrived in, so
// ties break deterministically.
type scored struct {
	section  *document.Section
	docOrder int
}

// Ranking orders scored sections and applies the two independent
// surface filters: the top-K window and the hard score floor.
type Ranking struct {
	entries []scored
}

// Add registers a section that has already been scored. docOrder is
// the position of the section's document in the run input.
func (r *Ranking) Add(sec *document.Section, docOrder int) {
	r.entries = append(r.entries, scored{section: sec, docOrder: docOrder})
}

// Top sorts all entries under the total order (score descending, then
// document input order, first page, build order) and returns up to k
// sections at or above minScore, with contiguous 1-based ranks.
//
// The window and the floor are independent: a section above the floor
// but outside the window is excluded, and so is a section inside the
// window but below the floor.
func (r *Ranking) Top(k int, minScore float64) []document.ScoredSection {
	sort.SliceStable(r.entries, func(i, j int) bool {
		a, b := r.entries[i], r.entries[j]
		if a.section.Score != b.section.Score {
			return a.section.Score > b.section.Score
		}
		if a.docOrder != b.docOrder {
			return a.docOrder < b.docOrder
		}
		ap, bp := firstPage(a.section), firstPage(b.section)
		if ap != bp {
			return ap < bp
		}
		return a.section.BuildOrder < b.section.BuildOrder
	})

	window := r.entries
	if len(window) > k {
		window = window[:k]
	}
	var out []document.ScoredSection
	for _, e := range window {
		if e.section.Score < minScore {
			continue
		}
		out = append(out, document.ScoredSection{
			Section: e.section,
			Score:   e.section.Score,
			Rank:    len(out) + 1,
		})
	}
	return out
}

func firstPage(s *document.Section) int {
	if len(s.Pages) == 0 {
		return 0
	}
	return s.Pages[0]
}
