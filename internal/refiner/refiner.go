package refiner

import (
	"strings"
	"unicode/utf8"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/config"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/vectorspace"
)

// Refine extracts the highest-scoring contiguous excerpt from a
// selected section. Candidate windows are scored against the query in
// the corpus-level vector space; refitting on the window set would
// make scores incomparable across stages, so the fitted space is
// reused as-is. Ties break toward the earliest window.
func Refine(sec document.ScoredSection, query []float64, space vectorspace.Projector, opts config.Options) document.Excerpt {
	content := sec.Section.Content

	// Content that fits a single window is the excerpt verbatim.
	if len(content) <= opts.WindowSize {
		return document.Excerpt{
			DocumentID: sec.Section.DocumentID,
			Text:       strings.TrimSpace(content),
			Page:       sec.Section.PageAt(0),
			Score:      vectorspace.Cosine(query, space.Project(content)),
		}
	}

	bestScore := -1.0
	bestStart := 0
	bestEnd := 0
	for start := 0; start < len(content); start += opts.WindowStride {
		start = runeAlign(content, start)
		if start >= len(content) {
			break
		}
		end := start + opts.WindowSize
		if end >= len(content) {
			end = len(content)
		} else {
			end = runeAlign(content, end)
		}
		window := content[start:end]
		score := vectorspace.Cosine(query, space.Project(window))
		if score > bestScore {
			bestScore = score
			bestStart = start
			bestEnd = end
		}
		if end == len(content) {
			break
		}
	}

	return document.Excerpt{
		DocumentID: sec.Section.DocumentID,
		Text:       strings.TrimSpace(content[bestStart:bestEnd]),
		Page:       sec.Section.PageAt(bestStart),
		Score:      bestScore,
	}
}

// runeAlign moves an offset forward to the nearest UTF-8 boundary.
func runeAlign(s string, i int) int {
	for i < len(s) && !utf8.RuneStart(s[i]) {
		i++
	}
	return i
}
