package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors adapt to the terminal background, GLAMOUR_STYLE=light|dark forces a theme
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
)

var (
	StyleTitle      lipgloss.Style
	StyleText       lipgloss.Style
	StyleTextMuted  lipgloss.Style
	StyleTextDim    lipgloss.Style
	StyleFocused    lipgloss.Style
	StyleUnselected lipgloss.Style
	StyleSuccess    lipgloss.Style
	StyleWarning    lipgloss.Style
	StyleError      lipgloss.Style
	StyleInfo       lipgloss.Style
	StyleIndex      lipgloss.Style
	StyleCode       lipgloss.Style
	StylePrompt     lipgloss.Style
)

func init() {
	initializeColors()
	buildStyles()
}

func initializeColors() {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
		return
	case "dark":
		setDarkThemeColors()
		return
	}

	if lipgloss.HasDarkBackground() {
		setDarkThemeColors()
	} else {
		setLightThemeColors()
	}
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")
	ColorSecondary = lipgloss.Color("33")
	ColorAccent = lipgloss.Color("214")

	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")

	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")

	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")

	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
}

// buildStyles must run after the colors are set
func buildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Background(ColorSecondary).
		Bold(true).
		Padding(0, 1)

	StyleUnselected = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Padding(0, 1)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)

	StyleIndex = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	StyleCode = lipgloss.NewStyle().Foreground(ColorAccent)

	StylePrompt = lipgloss.NewStyle().
		Foreground(ColorError).
		Bold(true)
}

// CreateOption renders one menu entry, highlighted when selected
func CreateOption(label, description string, isSelected bool) []string {
	style, prefix := StyleUnselected, "  "
	if isSelected {
		style, prefix = StyleFocused, "▶ "
	}

	lines := []string{style.Render(prefix + label)}
	if description != "" {
		lines = append(lines, StyleTextDim.Italic(true).PaddingLeft(4).Render(description))
	}
	return lines
}

func CreateHelp(keys ...string) string {
	return StyleTextDim.Render(strings.Join(keys, " • "))
}

// CreateStatus colours text by status type: success, warning, error or info
func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}
