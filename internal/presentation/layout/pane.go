package layout

import "strings"

const tabStop = 8

// expandTabs replaces tabs with spaces at fixed 8-column stops. Sanitized
// output keeps tabs, but the pane clips by display width and runewidth
// treats a tab as zero-width, so they have to go before clipping.
func expandTabs(line string) string {
	if !strings.Contains(line, "\t") {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := tabStop - col%tabStop
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col += sharedSizer.displayWidth(string(r))
	}
	return b.String()
}

// PaneLines windows sanitized terminal text into exactly height lines of at
// most width columns. Offset counts lines scrolled up from the bottom: 0
// pins the window to the latest output, larger offsets reveal history until
// the top of the text is reached.
func PaneLines(text string, width, height, offset int) []string {
	if height <= 0 {
		return nil
	}

	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}

	out := make([]string, 0, height)
	if len(lines) <= height {
		for _, line := range lines {
			out = append(out, sharedSizer.ClipString(expandTabs(line), width))
		}
		for len(out) < height {
			out = append(out, "")
		}
		return out
	}

	end := len(lines) - offset
	if end < height {
		end = height
	}
	if end > len(lines) {
		end = len(lines)
	}
	for _, line := range lines[end-height : end] {
		out = append(out, sharedSizer.ClipString(expandTabs(line), width))
	}
	return out
}

// MaxPaneOffset reports how far the pane can scroll up for a text of the
// given height, clamping keyboard scrolling at the top of the buffer.
func MaxPaneOffset(text string, height int) int {
	if text == "" || height <= 0 {
		return 0
	}
	n := strings.Count(text, "\n") + 1
	if n <= height {
		return 0
	}
	return n - height
}
