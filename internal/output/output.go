package output

import (
	"time"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
)

// Assemble merges the ranked sections, their excerpts, and run
// metadata into an immutable RunResult. Pure assembly: all scoring and
// filtering decisions happened upstream.
func Assemble(query document.Query, inputDocs []string, sections []document.ScoredSection, excerpts []document.Excerpt, at time.Time) document.RunResult {
	docs := make([]string, len(inputDocs))
	copy(docs, inputDocs)
	secs := make([]document.ScoredSection, len(sections))
	copy(secs, sections)
	exs := make([]document.Excerpt, len(excerpts))
	copy(exs, excerpts)
	return document.RunResult{
		Query:          query,
		InputDocuments: docs,
		Sections:       secs,
		Excerpts:       exs,
		ProcessedAt:    at,
	}
}

// Metadata describes a run in the consolidated output schema.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// ExtractedSection is one ranked section in the consolidated output.
type ExtractedSection struct {
	Document       string  `json:"document"`
	SectionTitle   string  `json:"section_title"`
	ImportanceRank int     `json:"importance_rank"`
	PageNumber     int     `json:"page_number"`
	Score          float64 `json:"score"`
}

// Subsection is one refined excerpt in the consolidated output.
type Subsection struct {
	Document    string  `json:"document"`
	RefinedText string  `json:"refined_text"`
	PageNumber  int     `json:"page_number"`
	Score       float64 `json:"score"`
}

// Consolidated is the output schema consumed by downstream tooling.
type Consolidated struct {
	Metadata           Metadata           `json:"metadata"`
	ExtractedSections  []ExtractedSection `json:"extracted_sections"`
	SubsectionAnalysis []Subsection       `json:"subsection_analysis"`
}

// Consolidate renders a RunResult into the output schema, surfacing at
// most `surfaced` sections and their excerpts in rank order.
func Consolidate(res document.RunResult, surfaced int) Consolidated {
	out := Consolidated{
		Metadata: Metadata{
			InputDocuments:      res.InputDocuments,
			Persona:             res.Query.Persona,
			JobToBeDone:         res.Query.Job,
			ProcessingTimestamp: res.ProcessedAt.Format(time.RFC3339),
		},
		ExtractedSections:  []ExtractedSection{},
		SubsectionAnalysis: []Subsection{},
	}

	sections := res.Sections
	excerpts := res.Excerpts
	if len(sections) > surfaced {
		sections = sections[:surfaced]
	}
	if len(excerpts) > surfaced {
		excerpts = excerpts[:surfaced]
	}

	for _, sec := range sections {
		page := 0
		if len(sec.Section.Pages) > 0 {
			page = sec.Section.Pages[0]
		}
		out.ExtractedSections = append(out.ExtractedSections, ExtractedSection{
			Document:       sec.Section.DocumentID,
			SectionTitle:   sec.Section.Title,
			ImportanceRank: sec.Rank,
			PageNumber:     page,
			Score:          sec.Score,
		})
	}
	for _, ex := range excerpts {
		out.SubsectionAnalysis = append(out.SubsectionAnalysis, Subsection{
			Document:    ex.DocumentID,
			RefinedText: ex.Text,
			PageNumber:  ex.Page,
			Score:       ex.Score,
		})
	}
	return out
}
