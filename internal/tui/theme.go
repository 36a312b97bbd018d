package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// The table must stay readable on light and dark terminals, so colors are
// adaptive and faint styling is only used on dark backgrounds.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

func faintIfDark(st lipgloss.Style) lipgloss.Style {
	if lipgloss.HasDarkBackground() {
		return st.Faint(true)
	}
	return st
}

var (
	colorMuted  lipgloss.TerminalColor = ac("240", "243")
	colorBorder lipgloss.TerminalColor = ac("250", "240")
	colorHeader lipgloss.TerminalColor = ac("27", "75")
	// Shading for every other row.
	colorAltRowBg lipgloss.TerminalColor = ac("254", "236")
	// Uncommitted text in the field being edited.
	colorEditFg lipgloss.TerminalColor = ac("136", "226")

	colorHelpBorder lipgloss.TerminalColor = ac("27", "62")
)

func styleMuted() lipgloss.Style {
	return faintIfDark(lipgloss.NewStyle().Foreground(colorMuted))
}

// EnvTheme forces the background used by adaptive colors: "light" or "dark".
const EnvTheme = "IVLY_TUI_THEME"

// terminalProfile picks the color profile for a session. NO_COLOR turns color
// off; COLORTERM and TERM can only raise what termenv detected on a terminal.
func terminalProfile(getenv func(string) string, detected termenv.Profile) termenv.Profile {
	if strings.TrimSpace(getenv("NO_COLOR")) != "" || detected == termenv.Ascii {
		return termenv.Ascii
	}
	colorterm := strings.ToLower(getenv("COLORTERM"))
	switch {
	case strings.Contains(colorterm, "truecolor"), strings.Contains(colorterm, "24bit"):
		return termenv.TrueColor
	case detected == termenv.ANSI && strings.Contains(strings.ToLower(getenv("TERM")), "256color"):
		return termenv.ANSI256
	}
	return detected
}

// darkBackground reads the background from IVLY_TUI_THEME, then from the
// last field of COLORFGBG. ok is false when neither decides, leaving
// lipgloss to query the terminal.
func darkBackground(getenv func(string) string) (dark, ok bool) {
	switch strings.ToLower(strings.TrimSpace(getenv(EnvTheme))) {
	case "dark":
		return true, true
	case "light":
		return false, true
	}
	fgbg := getenv("COLORFGBG")
	if i := strings.LastIndexByte(fgbg, ';'); i >= 0 {
		fgbg = fgbg[i+1:]
	}
	bg, err := strconv.Atoi(strings.TrimSpace(fgbg))
	if err != nil {
		return false, false
	}
	// 7 (white) and 9-15 (bright colors) are light backgrounds.
	return bg < 7 || bg == 8, true
}

func applyTerminalAppearance(getenv func(string) string) {
	lipgloss.SetColorProfile(terminalProfile(getenv, termenv.ColorProfile()))
	if dark, ok := darkBackground(getenv); ok {
		lipgloss.SetHasDarkBackground(dark)
	}
}
