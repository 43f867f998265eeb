package layout

import (
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
)

// compactChromeRows counts the non-pane rows of the compact layout: two
// borders, header, two separators and the transport bar.
const compactChromeRows = 6

// CompactLayoutStrategy renders the player without the annotation panel or
// footer, leaving the most rows for terminal output.
type CompactLayoutStrategy struct {
	BaseStrategy
}

func (s *CompactLayoutStrategy) GetName() string {
	return "Compact Player"
}

func (s *CompactLayoutStrategy) Render(frame *player.Frame, param model.LayoutParam) []string {
	maxWidth := s.GetSizer().GetMaxWidth()
	maxHeight := s.GetSizer().GetMaxHeight()

	paneHeight := maxHeight - compactChromeRows
	if paneHeight < 3 {
		paneHeight = 3
	}

	lines := make([]string, 0, paneHeight+compactChromeRows)
	lines = append(lines, s.TopBorder(maxWidth))
	lines = append(lines, s.HeaderLine(frame, param, maxWidth))
	lines = append(lines, s.Separator(maxWidth))
	for _, pane := range PaneLines(frame.Text, maxWidth-4, paneHeight, frame.Interaction.ScrollOffset) {
		lines = append(lines, s.BoxLine(pane, maxWidth))
	}
	lines = append(lines, s.Separator(maxWidth))
	lines = append(lines, s.BoxLine(s.TransportLine(frame, maxWidth), maxWidth))
	lines = append(lines, s.BottomBorder(maxWidth))
	return lines
}
