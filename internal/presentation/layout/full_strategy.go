package layout

import (
	"strings"

	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
)

// fullChromeRows counts the non-pane rows of the full layout: two borders,
// header, three separators, two annotation rows, transport bar and footer.
const fullChromeRows = 10

// FullLayoutStrategy renders the boxed player view with an annotation panel
// and a key-hint footer.
type FullLayoutStrategy struct {
	BaseStrategy
}

func (s *FullLayoutStrategy) GetName() string {
	return "Full Player"
}

func (s *FullLayoutStrategy) Render(frame *player.Frame, param model.LayoutParam) []string {
	maxWidth := s.GetSizer().GetMaxWidth()
	maxHeight := s.GetSizer().GetMaxHeight()

	paneHeight := maxHeight - fullChromeRows
	if paneHeight < 3 {
		paneHeight = 3
	}

	lines := make([]string, 0, paneHeight+fullChromeRows)
	lines = append(lines, s.TopBorder(maxWidth))
	lines = append(lines, s.HeaderLine(frame, param, maxWidth))
	lines = append(lines, s.Separator(maxWidth))
	for _, pane := range PaneLines(frame.Text, maxWidth-4, paneHeight, frame.Interaction.ScrollOffset) {
		lines = append(lines, s.BoxLine(pane, maxWidth))
	}
	lines = append(lines, s.Separator(maxWidth))
	first, second := annotationRows(frame.Annotation, maxWidth-4)
	lines = append(lines, s.BoxLine(first, maxWidth))
	lines = append(lines, s.BoxLine(second, maxWidth))
	lines = append(lines, s.Separator(maxWidth))
	lines = append(lines, s.BoxLine(s.TransportLine(frame, maxWidth), maxWidth))
	lines = append(lines, s.BottomBorder(maxWidth))
	lines = append(lines, s.footer(frame, maxWidth))
	return lines
}

// annotationRows renders the two-row annotation panel. The panel keeps its
// rows when no annotation is active so the pane geometry never jumps
// between frames.
func annotationRows(a *model.Annotation, width int) (string, string) {
	if a == nil {
		return "", ""
	}

	text := a.Explanation
	if text == "" {
		text = a.Analysis
	}
	if text == "" {
		text = a.Raw
	}
	text = strings.Join(strings.Fields(text), " ")

	prefix := "📍 "
	if a.TaskComplete {
		prefix = "✅ "
	}
	indent := strings.Repeat(" ", sharedSizer.displayWidth(prefix))

	avail := width - sharedSizer.displayWidth(prefix)
	head, rest := splitAtWidth(text, avail)
	if rest == "" {
		return prefix + head, ""
	}
	return prefix + head, indent + sharedSizer.ClipString(rest, avail)
}

// splitAtWidth breaks text at the last space that keeps the head within
// width display columns, falling back to a hard break for unbroken runs.
func splitAtWidth(text string, width int) (string, string) {
	if sharedSizer.displayWidth(text) <= width {
		return text, ""
	}
	lastSpace := -1
	col := 0
	for i, r := range text {
		w := sharedSizer.runeWidth(r)
		if col+w > width {
			if lastSpace > 0 {
				return text[:lastSpace], strings.TrimLeft(text[lastSpace:], " ")
			}
			return text[:i], text[i:]
		}
		if r == ' ' {
			lastSpace = i
		}
		col += w
	}
	return text, ""
}

func (s *FullLayoutStrategy) footer(frame *player.Frame, maxWidth int) string {
	if msg := frame.Interaction.StatusMessage; msg != "" {
		return sharedSizer.ClipString(" "+msg, maxWidth)
	}
	hints := " space play/pause · ←→ seek · n/p marker · [] speed · h help · q quit"
	return sharedSizer.ClipString(hints, maxWidth)
}
