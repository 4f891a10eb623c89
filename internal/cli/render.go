// pattern: Functional Core
package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"logfake/internal/logging"
)

// Styles renders log entries with a catppuccin flavor.
type Styles struct {
	flavor catppuccin.Flavor
}

// NewStyles returns styles for the named flavor. Unknown names use mocha.
func NewStyles(themeName string) *Styles {
	return &Styles{flavor: flavorFromName(themeName)}
}

func flavorFromName(name string) catppuccin.Flavor {
	switch name {
	case "latte":
		return catppuccin.Latte
	case "frappe":
		return catppuccin.Frappe
	case "macchiato":
		return catppuccin.Macchiato
	default:
		return catppuccin.Mocha
	}
}

func (s *Styles) TimestampStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Overlay1().Hex))
}

func (s *Styles) ChannelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Mauve().Hex))
}

func (s *Styles) FieldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(s.flavor.Subtext0().Hex))
}

// LevelStyle returns the badge style for level.
func (s *Styles) LevelStyle(level logging.Level) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch level {
	case logging.LevelEmergency, logging.LevelAlert, logging.LevelCritical:
		return style.
			Foreground(lipgloss.Color(s.flavor.Base().Hex)).
			Background(lipgloss.Color(s.flavor.Red().Hex))
	case logging.LevelError:
		return style.Foreground(lipgloss.Color(s.flavor.Red().Hex))
	case logging.LevelWarning:
		return style.Foreground(lipgloss.Color(s.flavor.Peach().Hex))
	case logging.LevelNotice:
		return style.Foreground(lipgloss.Color(s.flavor.Teal().Hex))
	case logging.LevelDebug:
		return style.Foreground(lipgloss.Color(s.flavor.Overlay0().Hex))
	default:
		return style.Foreground(lipgloss.Color(s.flavor.Blue().Hex))
	}
}

// RenderEntry renders one entry as "15:04:05 LEVEL [channel] message k=v".
func (s *Styles) RenderEntry(entry logging.LogEntry) string {
	ts := s.TimestampStyle().Render(entry.Timestamp.Format("15:04:05"))
	level := s.LevelStyle(entry.Level).Render(strings.ToUpper(string(entry.Level)))
	channel := s.ChannelStyle().Render("[" + entry.Channel + "]")

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s %s", ts, level, channel, entry.Message)
	for _, k := range slices.Sorted(maps.Keys(entry.Fields)) {
		sb.WriteString(" ")
		sb.WriteString(s.FieldStyle().Render(fmt.Sprintf("%s=%v", k, entry.Fields[k])))
	}
	return sb.String()
}

// StripANSI removes ANSI escape sequences from the given string.
func StripANSI(s string) string {
	return ansi.Strip(s)
}
