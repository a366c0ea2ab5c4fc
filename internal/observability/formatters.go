// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/resume-builder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// logTailLines is how much of a compiler log a failure box shows
	logTailLines = 15
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", pad(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// pad truncates or right-pads a line to the inner box width, counting runes
func pad(line string) string {
	width := boxWidth - 4
	if utf8.RuneCountInString(line) > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-utf8.RuneCountInString(line))
}

// PrintContentSummary outputs what a content file holds per category.
func (p *Printer) PrintContentSummary(content *types.ResumeContent) {
	if content == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:          %s\n", content.Header.FullName()))
	sb.WriteString(fmt.Sprintf("Experiences:   %d\n", len(content.Experiences)))
	sb.WriteString(fmt.Sprintf("Education:     %d\n", len(content.Education)))
	sb.WriteString(fmt.Sprintf("Projects:      %d\n", len(content.Projects)))
	sb.WriteString(fmt.Sprintf("Certificates:  %d\n", len(content.Certificates)))
	sb.WriteString(fmt.Sprintf("Skill groups:  %d\n", len(content.Skills)))
	sb.WriteString(fmt.Sprintf("Interests:     %d", len(content.Interests)))

	p.printBox("RESUME CONTENT", sb.String())
}

// PrintSelection outputs, per category, how many entries were kept and the
// titles of the kept entries.
func (p *Printer) PrintSelection(content *types.ResumeContent, selected *types.Selected) {
	if content == nil || selected == nil {
		return
	}

	available := map[types.Category]int{
		types.CategoryExperiences:  len(content.Experiences),
		types.CategoryEducation:    len(content.Education),
		types.CategoryProjects:     len(content.Projects),
		types.CategoryCertificates: len(content.Certificates),
	}

	var sb strings.Builder
	for i, c := range types.Categories() {
		kept := selected.Count(c)
		sb.WriteString(fmt.Sprintf("%-13s %d of %d", string(c)+":", kept, available[c]))
		if kept == 0 {
			sb.WriteString("  (omitted)")
		}
		sb.WriteString("\n")

		titles := entryTitles(selected, c)
		count := min(len(titles), maxItemsToShow)
		for j := 0; j < count; j++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", titles[j]))
		}
		if len(titles) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(titles)-maxItemsToShow))
		}
		if i < len(types.Categories())-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SECTION SELECTION", strings.TrimSuffix(sb.String(), "\n"))
}

func entryTitles(selected *types.Selected, c types.Category) []string {
	var titles []string
	switch c {
	case types.CategoryExperiences:
		for _, e := range selected.Experiences {
			title := e.Role
			if e.Company != "" {
				title += " @ " + e.Company
			}
			titles = append(titles, title)
		}
	case types.CategoryEducation:
		for _, e := range selected.Education {
			titles = append(titles, strings.TrimSpace(e.Degree+" "+e.Subject))
		}
	case types.CategoryProjects:
		for _, pr := range selected.Projects {
			titles = append(titles, pr.Name)
		}
	case types.CategoryCertificates:
		for _, ce := range selected.Certificates {
			titles = append(titles, ce.Name)
		}
	}
	return titles
}

// CompileSummary is what PrintCompileResult reports
type CompileSummary struct {
	SourcePath   string
	ArtifactPath string
	Duration     time.Duration
	// Pages is zero when the page count is unknown
	Pages int
}

// PrintCompileResult outputs the paths and timing of a successful compile.
func (p *Printer) PrintCompileResult(summary CompileSummary) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Source:    %s\n", summary.SourcePath))
	sb.WriteString(fmt.Sprintf("Artifact:  %s\n", summary.ArtifactPath))
	sb.WriteString(fmt.Sprintf("Duration:  %s", summary.Duration.Round(time.Millisecond)))
	if summary.Pages > 0 {
		sb.WriteString(fmt.Sprintf("\nPages:     %d", summary.Pages))
	}

	p.printBox("COMPILED RESUME", sb.String())
}

// PrintCompileLog outputs the last lines of a compiler log.
func (p *Printer) PrintCompileLog(log string) {
	log = strings.TrimRight(log, "\n")
	if log == "" {
		return
	}

	lines := strings.Split(log, "\n")
	var sb strings.Builder
	if len(lines) > logTailLines {
		sb.WriteString(fmt.Sprintf("... %d earlier lines\n", len(lines)-logTailLines))
		lines = lines[len(lines)-logTailLines:]
	}
	sb.WriteString(strings.Join(lines, "\n"))

	p.printBox("COMPILER LOG", sb.String())
}
