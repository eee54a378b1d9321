package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/spiffcs/sonar/internal/model"
)

// Column widths
const (
	colScore    = 5
	colUser     = 20
	colLocation = 18
	colLanguage = 12
	colActivity = 11
	colStars    = 6
	colReason   = 44
	colStatus   = 9
	colFound    = 5
)

var (
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	summaryLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	summaryValueStyle = lipgloss.NewStyle().Bold(true)
)

// TableFormatter formats output as a terminal table
type TableFormatter struct {
	// Now is used for the age column of persisted results.
	Now func() time.Time

	// Links enables OSC 8 hyperlinks; nil means "when stdout is a terminal".
	Links *bool
}

// FormatCandidates implements Formatter.
func (f *TableFormatter) FormatCandidates(candidates []model.ScoredCandidate, summary RunSummary, w io.Writer) error {
	if len(candidates) == 0 {
		fmt.Fprintln(w, "No new candidates found.")
	} else {
		rows := make([]row, 0, len(candidates))
		for _, c := range candidates {
			rows = append(rows, candidateRow(c))
		}
		f.writeTable(w, rows, false)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderSummary(summary))
	return nil
}

// FormatResults implements Formatter.
func (f *TableFormatter) FormatResults(results []model.SonarResult, w io.Writer) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	rows := make([]row, 0, len(results))
	for _, r := range results {
		rows = append(rows, resultRow(r))
	}
	f.writeTable(w, rows, true)
	return nil
}

func (f *TableFormatter) writeTable(w io.Writer, rows []row, persisted bool) {
	header := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %-*s  %*s  %-*s",
		colScore, "Score",
		colUser, "Username",
		colLocation, "Location",
		colLanguage, "Language",
		colActivity, "Activity",
		colStars, "Stars",
		colReason, "Top reason")
	width := colScore + colUser + colLocation + colLanguage + colActivity + colStars + colReason + 12
	if persisted {
		header += fmt.Sprintf("  %-*s  %s", colStatus, "Status", "Found")
		width += colStatus + colFound + 4
	}
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", width))

	links := f.linksEnabled()
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}

	for _, r := range rows {
		user := fit(r.Username, colUser)
		if links {
			user = hyperlink(user, ProfileURL(r.Username))
		}

		reason := r.Reason
		if reason == "" && r.Concern != "" {
			reason = "! " + r.Concern
		}

		line := fmt.Sprintf("%s  %s  %s  %s  %s  %*s  %s",
			padRight(colorScore(r.Score), displayWidth(colorScore(r.Score)), colScore),
			user,
			fit(r.Location, colLocation),
			fit(r.Language, colLanguage),
			fit(string(r.Activity), colActivity),
			colStars, compact(r.Stars),
			fit(reason, colReason))
		if persisted {
			line += fmt.Sprintf("  %s  %s", fit(string(r.Status), colStatus), formatAge(now().Sub(r.CreatedAt)))
		}
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}

func (f *TableFormatter) linksEnabled() bool {
	if f.Links != nil {
		return *f.Links
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// hyperlink creates a clickable terminal hyperlink using OSC 8
func hyperlink(text, url string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

func colorScore(score int) string {
	s := fmt.Sprintf("%d", score)
	switch {
	case score >= 75:
		return color.GreenString(s)
	case score >= 50:
		return color.YellowString(s)
	default:
		return color.WhiteString(s)
	}
}

func renderSummary(s RunSummary) string {
	line := func(label string, value any) string {
		return summaryLabelStyle.Render(fmt.Sprintf("%-18s", label)) + summaryValueStyle.Render(fmt.Sprint(value))
	}
	lines := []string{
		line("Queries", len(s.Queries)),
		line("Profiles searched", s.SearchedProfiles),
		line("Qualified", s.Qualified),
		line("New candidates", s.NewCandidates),
	}
	if s.Duration > 0 {
		lines = append(lines, line("Duration", s.Duration.Round(time.Millisecond)))
	}
	return summaryStyle.Render(strings.Join(lines, "\n"))
}
