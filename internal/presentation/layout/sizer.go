package layout

import (
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Package-level singleton Sizer instance
var sharedSizer = &Sizer{}

type Sizer struct {
}

// displayWidth calculates the actual display width of a string containing emojis and Unicode characters
func (i Sizer) displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

func (i Sizer) runeWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// PadString pads a string to a specific display width, handling emojis correctly
func (i Sizer) PadString(s string, width int, leftAlign bool) string {
	actualWidth := i.displayWidth(s)
	if actualWidth >= width {
		return s
	}

	padding := strings.Repeat(" ", width-actualWidth)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// ClipString truncates a string so its display width fits, cutting on rune
// boundaries so wide characters are never split.
func (i Sizer) ClipString(s string, width int) string {
	if i.displayWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "")
}

func (i Sizer) GetMaxWidth() int {
	// Get terminal width with fallback
	termWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termWidth < 40 {
		termWidth = 80 // Default fallback
	}

	if termWidth > 120 {
		termWidth = 120 // Cap at reasonable maximum
	}
	return termWidth
}

func (i Sizer) GetMaxHeight() int {
	_, termHeight, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || termHeight < 10 {
		termHeight = 24 // Default fallback
	}
	return termHeight
}
