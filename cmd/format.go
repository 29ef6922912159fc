package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rubiojr/letterpress/pkg/dom"
	"github.com/rubiojr/letterpress/pkg/filter"
	"github.com/rubiojr/letterpress/pkg/search"
)

// Define styles using lipgloss
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")).
			Background(lipgloss.Color("235")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			Margin(1, 0, 1, 0)

	blockStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Margin(0, 0, 1, 2)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	summaryStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("32")).
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("32")).
			Padding(0, 1).
			Margin(0, 0, 1, 0)

	noDataStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			Margin(1, 0)

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))
)

var title = cases.Title(language.English)

// printResults prints the letters region and the pagination state.
func printResults(page *dom.Page, s *search.Session) error {
	fmt.Print(formatResults(page, s))
	return nil
}

func formatResults(page *dom.Page, s *search.Session) string {
	var out strings.Builder

	letters, _ := page.HTML(dom.LettersRegion)
	blocks := dom.TextBlocks(letters)
	if len(blocks) == 0 {
		out.WriteString(noDataStyle.Render("No letters found"))
		out.WriteString("\n")
	}
	for _, b := range blocks {
		out.WriteString(blockStyle.Render(b))
		out.WriteString("\n")
	}

	out.WriteString(summaryStyle.Render(pageSummary(s)))
	out.WriteString("\n")
	return out.String()
}

func pageSummary(s *search.Session) string {
	active, ok := s.ActivePage()
	last := s.LastPage()
	switch {
	case ok && last > 0:
		return fmt.Sprintf("Page %d of %d", active, last)
	case ok:
		return fmt.Sprintf("Page %d", active)
	default:
		return "Single page"
	}
}

// formatCriteria is a one-line description of a set of filters.
func formatCriteria(c filter.Criteria) string {
	var parts []string
	if c.SearchText != "" {
		parts = append(parts, fmt.Sprintf("%q", c.SearchText))
	}
	lists := []struct {
		name   string
		values []string
	}{
		{"sources", c.Sources},
		{"writers", c.Writers},
		{"sentiments", c.Sentiments},
		{"words", c.ExtraWords},
	}
	for _, l := range lists {
		if len(l.values) > 0 {
			parts = append(parts, fmt.Sprintf("%s: %s", l.name, strings.Join(l.values, ",")))
		}
	}
	if c.StartDate != "" || c.EndDate != "" {
		parts = append(parts, fmt.Sprintf("dates: %s..%s", c.StartDate, c.EndDate))
	}
	if c.SortBy != "" {
		parts = append(parts, "sort: "+c.SortBy)
	}
	if len(parts) == 0 {
		return "all letters"
	}
	return strings.Join(parts, ", ")
}

// formatTime formats a time relative to now or as an absolute date
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < 24*time.Hour {
		if diff < time.Hour {
			minutes := int(diff.Minutes())
			if minutes < 1 {
				return "just now"
			}
			return fmt.Sprintf("%d minutes ago", minutes)
		}
		return fmt.Sprintf("%d hours ago", int(diff.Hours()))
	}

	if diff < 7*24*time.Hour {
		return fmt.Sprintf("%d days ago", int(diff.Hours()/24))
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 2, 15:04")
	}
	return t.Format("Jan 2, 2006")
}

// formatBytes formats a byte count with K/M suffixes for readability
func formatBytes(n int64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	} else if n < 1024*1024 {
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}
