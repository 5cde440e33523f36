package logger

import (
	"github.com/charmbracelet/lipgloss"
	charm "github.com/charmbracelet/log"
)

const (
	colorRed    = "#FF5F5F"
	colorOrange = "#FFAF00"
	colorCyan   = "#00AFD7"
	colorBlue   = "#5F87FF"
	colorGray   = "#808080"
)

// getMonarchLogStyles returns the level badges and the highlighted keys.
func getMonarchLogStyles() *charm.Styles {
	styles := charm.DefaultStyles()

	badge := func(label, color string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString(label).
			Padding(0, 1).
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(lipgloss.Color(color))
	}

	styles.Levels[TraceLevel] = badge("TRCE", colorGray)
	styles.Levels[charm.DebugLevel] = badge("DEBU", colorBlue)
	styles.Levels[charm.InfoLevel] = badge("INFO", colorCyan)
	styles.Levels[charm.WarnLevel] = badge("WARN", colorOrange)
	styles.Levels[charm.ErrorLevel] = badge("ERRO", colorRed)
	styles.Levels[charm.FatalLevel] = badge("FATA", colorRed)

	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	styles.Values["error"] = lipgloss.NewStyle().Bold(true)
	styles.Keys["source"] = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	styles.Keys["key"] = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))

	return styles
}
