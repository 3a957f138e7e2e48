package prompt

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	KeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Width(14)

	ValueStyle = lipgloss.NewStyle().Bold(true)
)

// Setting is one line of the startup banner.
type Setting struct {
	Key, Value string
}

// Banner renders the tool name, a subtitle and aligned settings.
func Banner(title, subtitle string, settings []Setting) string {
	lines := make([]string, 0, len(settings))
	for _, s := range settings {
		lines = append(lines, KeyStyle.Render(s.Key)+ValueStyle.Render(s.Value))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(title),
		SubtitleStyle.Render(subtitle),
		"",
		strings.Join(lines, "\n"),
	) + "\n"
}

// DescribeCandidates lists candidates 1-indexed, one per line.
func DescribeCandidates(candidates []string) string {
	var b strings.Builder
	for i, c := range candidates {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, c)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
