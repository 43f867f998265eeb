package layout

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
	"github.com/logflix/logflix/internal/util"
)

// BaseStrategy provides common functionality for all layout strategies
type BaseStrategy struct {
}

// NewBaseStrategy creates a new BaseStrategy instance
func NewBaseStrategy() *BaseStrategy {
	return &BaseStrategy{}
}

// GetSizer returns the shared sizer instance
func (b *BaseStrategy) GetSizer() *Sizer {
	return sharedSizer
}

// TopBorder creates the top border line
func (b *BaseStrategy) TopBorder(maxWidth int) string {
	return "╭" + strings.Repeat("─", maxWidth-2) + "╮"
}

// BottomBorder creates the bottom border line
func (b *BaseStrategy) BottomBorder(maxWidth int) string {
	return "╰" + strings.Repeat("─", maxWidth-2) + "╯"
}

// Separator creates an inner separator line
func (b *BaseStrategy) Separator(maxWidth int) string {
	return "├" + strings.Repeat("─", maxWidth-2) + "┤"
}

// BoxLine wraps already-clipped content in box borders, padded to maxWidth
// by display width so emojis and wide characters keep the border aligned.
func (b *BaseStrategy) BoxLine(content string, maxWidth int) string {
	return "│ " + sharedSizer.PadString(content, maxWidth-4, true) + " │"
}

// TwoColumnLine formats a bordered line with two columns split by a divider
func (b *BaseStrategy) TwoColumnLine(left, right string, maxWidth int) string {
	leftWidth := sharedSizer.displayWidth(left)
	rightWidth := sharedSizer.displayWidth(right)

	// First, determine the divider position (centered)
	// Format: "│ " + leftContent + " │ " + rightContent + " │"
	// Total fixed chars: 2 (left border + space) + 3 (space + divider + space) + 2 (space + right border) = 7
	availableContentWidth := maxWidth - 7
	leftColumnWidth := availableContentWidth / 2
	rightColumnWidth := availableContentWidth - leftColumnWidth

	// Use the allocated widths, but ensure content fits
	if leftWidth > leftColumnWidth {
		leftColumnWidth = leftWidth
	}
	if rightWidth > rightColumnWidth {
		rightColumnWidth = rightWidth
	}

	return fmt.Sprintf("│ %s%s │ %s%s │",
		left, strings.Repeat(" ", leftColumnWidth-leftWidth),
		right, strings.Repeat(" ", rightColumnWidth-rightWidth))
}

// HeaderLine builds the session header: product name and session title on
// the left, follow indicator and wall clock on the right.
func (b *BaseStrategy) HeaderLine(frame *player.Frame, param model.LayoutParam, maxWidth int) string {
	name := frame.Header.Title
	if name == "" {
		name = filepath.Base(frame.Path)
	}
	left := fmt.Sprintf("🎬 LOGFLIX  │  %s", sharedSizer.ClipString(name, maxWidth/2))

	right := b.wallClock(param)
	if frame.Interaction.Following {
		right = "⟲ follow  │  " + right
	}
	return b.TwoColumnLine(left, right, maxWidth)
}

// CenterText centers text within the given width
func (b *BaseStrategy) CenterText(text string, width int) string {
	padding := width - sharedSizer.displayWidth(text)
	if padding < 0 {
		return text
	}
	leftPad := padding / 2
	rightPad := padding - leftPad
	return strings.Repeat(" ", leftPad) + text + strings.Repeat(" ", rightPad)
}

// TransportLine renders the playback transport bar for the frame, sized to
// fit inside the box.
func (b *BaseStrategy) TransportLine(frame *player.Frame, maxWidth int) string {
	return BuildTransportBar(TransportState{
		Now:       frame.Now,
		MaxTime:   frame.MaxTime,
		Speed:     frame.Speed,
		Playing:   frame.Playing,
		Scrubbing: frame.Scrubbing,
		Markers:   frame.Markers,
	}, maxWidth-4)
}

func (b *BaseStrategy) wallClock(param model.LayoutParam) string {
	loc, err := time.LoadLocation(param.Timezone)
	if err != nil {
		loc = time.Local
	}
	return util.GetTimeProvider().Now().In(loc).Format("15:04:05")
}
