// Package color holds the colors clipreel paints with.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps a terminal color value: an ANSI index or a hex code.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// ANSI colors, used by plain CLI output so it follows the terminal theme.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")

	HiRed    = New("9")
	HiBlue   = New("12")
	HiPurple = New("13")

	Orange = New("#ffb703")
)

// Interface palette.
var (
	Text    = New("#cdd6f4")
	Overlay = New("#6c7086")
	Surface = New("#313244")

	Mauve    = New("#cba6f7")
	Rose     = New("#f38ba8")
	Peach    = New("#fab387")
	Sand     = New("#f9e2af")
	Mint     = New("#a6e3a1")
	Sapphire = New("#74c7ec")
	Lavender = New("#b4befe")
)

// Roles.
var (
	Accent    = Mauve
	Secondary = Lavender
	Success   = Mint
	Warning   = Sand
	Error     = Rose
	Faint     = Overlay

	// Scrubber track.
	Played   = Sapphire
	Unplayed = Surface
	Boundary = Peach
)
