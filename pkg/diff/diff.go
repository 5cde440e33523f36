// Package diff renders unified diffs of source documents.
package diff

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

var (
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Unified returns the unified diff from before to after, labelled with name.
// Identical texts yield "".
func Unified(name, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(name), before, after)
	unified := gotextdiff.ToUnified("a/"+name, "b/"+name, before, edits)
	return fmt.Sprint(unified)
}

// Colorize styles the lines of a unified diff. Without color the text is returned as is.
func Colorize(text string, color bool) string {
	if !color || text == "" {
		return text
	}

	lines := strings.SplitAfter(text, "\n")
	var b strings.Builder
	for _, line := range lines {
		content := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(content, "+++"), strings.HasPrefix(content, "---"):
			b.WriteString(lipgloss.NewStyle().Bold(true).Render(content))
		case strings.HasPrefix(content, "+"):
			b.WriteString(addedStyle.Render(content))
		case strings.HasPrefix(content, "-"):
			b.WriteString(removedStyle.Render(content))
		case strings.HasPrefix(content, "@@"):
			b.WriteString(hunkStyle.Render(content))
		default:
			b.WriteString(content)
		}
		if strings.HasSuffix(line, "\n") {
			b.WriteString("\n")
		}
	}
	return b.String()
}
