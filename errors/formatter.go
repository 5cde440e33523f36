package errors

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/cockroachdb/errors"
	"golang.org/x/term"
)

const (
	// DefaultMaxLineLength is the default maximum line length before wrapping.
	DefaultMaxLineLength = 80

	hintPrefix = "💡 "
	newline    = "\n"
)

// FormatterConfig controls error formatting behavior.
type FormatterConfig struct {
	// Verbose enables the context table and the full error chain.
	Verbose bool

	// Color controls color output: "auto", "always", or "never".
	Color string

	// MaxLineLength is the maximum length before wrapping (default: 80).
	MaxLineLength int
}

// DefaultFormatterConfig returns default formatting configuration.
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{
		Verbose:       false,
		Color:         "auto",
		MaxLineLength: DefaultMaxLineLength,
	}
}

// formatContextTable creates a styled 2-column table for error context.
// Context is extracted from the cockroachdb/errors safe details of every layer.
func formatContextTable(err error, useColor bool) string {
	// Parse "source=team/dev keys=a,b" into key-value pairs.
	var rows [][]string
	for _, layer := range errors.GetAllSafeDetails(err) {
		for _, detail := range layer.SafeDetails {
			for _, pair := range strings.Split(detail, " ") {
				if parts := strings.SplitN(pair, "=", 2); len(parts) == 2 && isContextKey(parts[0]) {
					rows = append(rows, []string{parts[0], parts[1]})
				}
			}
		}
	}

	if len(rows) == 0 {
		return ""
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Context", "Value").
		Rows(rows...)

	if useColor {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
			if row == table.HeaderRow {
				return style.Foreground(lipgloss.Color("#00AF00")).Bold(true)
			}
			if col == 0 {
				return style.Foreground(lipgloss.Color("#808080"))
			}
			return style
		})
	}

	return newline + t.String()
}

// isContextKey filters out stack and marker details that other layers contribute.
func isContextKey(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !(r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}

// Format formats an error for display: the message, then hints, then (verbose only)
// the context table and the full chain.
func Format(err error, config FormatterConfig) string {
	if err == nil {
		return ""
	}

	useColor := shouldUseColor(config.Color)

	errorStyle := lipgloss.NewStyle()
	if useColor {
		errorStyle = errorStyle.Foreground(lipgloss.Color("#FF0000"))
	}

	var output strings.Builder

	mainMsg := err.Error()
	if len(mainMsg) > config.MaxLineLength && !config.Verbose {
		output.WriteString(errorStyle.Render(wrapText(mainMsg, config.MaxLineLength)))
	} else {
		output.WriteString(errorStyle.Render(mainMsg))
	}

	hints := errors.GetAllHints(err)
	if len(hints) > 0 {
		output.WriteString(newline)
		for _, hint := range hints {
			output.WriteString("    " + hintPrefix + hint)
			output.WriteString(newline)
		}
	}

	if config.Verbose {
		if contextTable := formatContextTable(err, useColor); contextTable != "" {
			output.WriteString(contextTable)
			output.WriteString(newline)
		}
		output.WriteString(newline)
		output.WriteString(formatStackTrace(err, useColor))
	}

	return output.String()
}

// shouldUseColor determines if color output should be used.
func shouldUseColor(colorMode string) bool {
	switch colorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return term.IsTerminal(int(os.Stderr.Fd()))
	}
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) string {
	if width <= 0 {
		width = DefaultMaxLineLength
	}

	var lines []string
	var currentLine strings.Builder

	for _, word := range strings.Fields(text) {
		if currentLine.Len() > 0 && currentLine.Len()+1+len(word) > width {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
		}
		if currentLine.Len() > 0 {
			currentLine.WriteString(" ")
		}
		currentLine.WriteString(word)
	}

	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}

	return strings.Join(lines, newline)
}

// formatStackTrace formats the full error chain with stack traces.
func formatStackTrace(err error, useColor bool) string {
	style := lipgloss.NewStyle()
	if useColor {
		style = style.Foreground(lipgloss.Color("#808080"))
	}
	return style.Render(fmt.Sprintf("%+v", err))
}
