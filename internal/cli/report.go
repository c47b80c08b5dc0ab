package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/document"
	"github.com/Addybuddy9/Adobe-1B-Hack-the-Horizon/internal/output"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// scoreStyle for relevance scores
	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// headerBoxStyle for the run banner
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)

	// boxStyle for the summary
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)
)

// renderBanner builds the run header shown before processing starts.
func renderBanner(query document.Query, docCount int) string {
	content := fmt.Sprintf("%s\n%s %s\n%s %s\n%s %d files",
		titleStyle.Render("Persona-Driven Document Intelligence"),
		dimStyle.Render("Persona:"), query.Persona,
		dimStyle.Render("Job:"), query.Job,
		dimStyle.Render("Documents:"), docCount,
	)
	return headerBoxStyle.Render(content) + "\n"
}

// renderSummary builds the post-run report: ranked sections, the
// per-document distribution, and where the output landed.
func renderSummary(res document.RunResult, consolidated output.Consolidated, outPath string, elapsed time.Duration) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Top sections by relevance"))
	sb.WriteString("\n")
	for _, sec := range consolidated.ExtractedSections {
		sb.WriteString(fmt.Sprintf("%d. %s %s %s\n",
			sec.ImportanceRank,
			sec.SectionTitle,
			dimStyle.Render(fmt.Sprintf("(%s, page %d)", sec.Document, sec.PageNumber)),
			scoreStyle.Render(fmt.Sprintf("%.3f", sec.Score)),
		))
	}
	if len(consolidated.ExtractedSections) == 0 {
		sb.WriteString(dimStyle.Render("no sections met the relevance floor"))
		sb.WriteString("\n")
	}

	counts := make(map[string]int)
	for _, sec := range res.Sections {
		counts[sec.Section.DocumentID]++
	}
	if len(counts) > 0 {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render("Document distribution"))
		sb.WriteString("\n")
		for _, doc := range res.InputDocuments {
			if n, ok := counts[doc]; ok {
				sb.WriteString(fmt.Sprintf("%s: %d ranked sections\n", doc, n))
			}
		}
	}

	if len(res.Skipped) > 0 {
		sb.WriteString("\n")
		sb.WriteString(dimStyle.Render(fmt.Sprintf("Skipped (extraction failed): %s", strings.Join(res.Skipped, ", "))))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("%s %s  %s %.2fs",
		dimStyle.Render("Output:"), outPath,
		dimStyle.Render("Elapsed:"), elapsed.Seconds(),
	))

	return boxStyle.Render(sb.String()) + "\n"
}
