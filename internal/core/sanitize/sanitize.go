// Package sanitize turns raw terminal output into text safe to show as
// preformatted content. Escape stripping is layered: later rules assume the
// structured sequences are already gone, and the final control-character
// sweep guarantees no ESC byte survives, which is what makes both Strip and
// Render idempotent.
package sanitize

import (
	"regexp"
	"strings"
)

var (
	csiSequence    = regexp.MustCompile(`\x1b\[[0-9;:]*[a-zA-Z]`)
	csiPrivateMode = regexp.MustCompile(`\x1b\[\?[0-9;]*[hl]`)
	csiResidual    = regexp.MustCompile(`\x1b\[[0-9;]*[A-Z]`)
	bareCursor     = regexp.MustCompile(`\x1b[HJ]`)
	oscSequence    = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
	stringSequence = regexp.MustCompile(`\x1b[PX^_][^\x1b]*\x1b\\`)
	charsetSelect  = regexp.MustCompile(`\x1b[()*+][0-9A-Za-z]`)
	keypadMode     = regexp.MustCompile(`\x1b[=>]`)
	c1Introducer   = regexp.MustCompile(`\x1b[@-_]`)
	controlChars   = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	lineTrailingWS = regexp.MustCompile(`[ \t]+\n`)
	newlineRuns    = regexp.MustCompile(`\n{4,}`)
)

// Strip removes ANSI escape sequences, terminal control sequences and
// non-printing control characters from a raw output chunk. Newlines and tabs
// survive; carriage returns are normalized to newlines.
func Strip(s string) string {
	s = csiSequence.ReplaceAllString(s, "")
	s = csiPrivateMode.ReplaceAllString(s, "")
	s = csiResidual.ReplaceAllString(s, "")
	s = bareCursor.ReplaceAllString(s, "")
	s = oscSequence.ReplaceAllString(s, "")
	s = stringSequence.ReplaceAllString(s, "")
	s = charsetSelect.ReplaceAllString(s, "")
	s = keypadMode.ReplaceAllString(s, "")
	s = c1Introducer.ReplaceAllString(s, "")
	s = controlChars.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}

// Render prepares an accumulated output frame for display: Strip plus
// whitespace tidying. Trailing spaces go before newline runs are collapsed,
// otherwise space-only lines would hide runs from the collapse and re-render
// would produce a different result.
func Render(s string) string {
	s = Strip(s)
	s = lineTrailingWS.ReplaceAllString(s, "\n")
	s = newlineRuns.ReplaceAllString(s, "\n\n\n")
	s = strings.TrimRight(s, " \t\n")
	return s
}
