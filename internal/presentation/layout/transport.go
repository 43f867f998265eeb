package layout

import (
	"fmt"
	"math"
	"strings"

	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/util"
)

// TransportState carries everything the transport bar needs to draw itself.
// It is deliberately decoupled from the player frame so the bar can be built
// and tested without a running playback loop.
type TransportState struct {
	Now       float64
	MaxTime   float64
	Speed     float64
	Playing   bool
	Scrubbing bool
	Markers   []model.Marker
}

// FormatSpeed renders a playback speed multiplier without trailing zeros.
func FormatSpeed(speed float64) string {
	return fmt.Sprintf("%gx", speed)
}

// CurrentMarkerIndex returns the 1-based index of the most recent marker at
// or before now, or 0 when playback has not reached the first marker yet.
// Markers are assumed sorted by time.
func CurrentMarkerIndex(markers []model.Marker, now float64) int {
	idx := 0
	for _, m := range markers {
		if m.Time <= now {
			idx++
		} else {
			break
		}
	}
	return idx
}

// railColumn maps a timestamp onto a rail column in [0, width-1].
func railColumn(t, maxTime float64, width int) int {
	if width <= 1 {
		return 0
	}
	if maxTime <= 0 {
		return 0
	}
	frac := t / maxTime
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	col := int(math.Round(frac * float64(width-1)))
	if col > width-1 {
		col = width - 1
	}
	return col
}

// buildRail draws the seek rail: a line of '─' with '◆' at marker positions
// and '●' at the playhead. The playhead wins when it lands on a marker cell.
func buildRail(state TransportState, width int) string {
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = '─'
	}
	for _, m := range state.Markers {
		cells[railColumn(m.Time, state.MaxTime, width)] = '◆'
	}
	cells[railColumn(state.Now, state.MaxTime, width)] = '●'
	return string(cells)
}

// BuildTransportBar renders the single-line playback transport bar clipped to
// width: state glyph, elapsed/total clocks, seek rail, then speed and marker
// readout. A width too narrow for the rail falls back to the textual parts.
func BuildTransportBar(state TransportState, width int) string {
	glyph := "⏸"
	if state.Playing {
		glyph = "▶"
	}
	if state.Scrubbing {
		glyph = "⇆"
	}

	clocks := fmt.Sprintf("%s / %s", util.FormatClock(state.Now), util.FormatClock(state.MaxTime))

	suffix := FormatSpeed(state.Speed)
	if len(state.Markers) > 0 {
		suffix = fmt.Sprintf("%s · %d of %d", suffix, CurrentMarkerIndex(state.Markers, state.Now), len(state.Markers))
	}

	prefix := fmt.Sprintf("%s %s ", glyph, clocks)
	railWidth := width - sharedSizer.displayWidth(prefix) - sharedSizer.displayWidth(suffix) - 1
	if railWidth < 10 {
		return sharedSizer.ClipString(strings.TrimSpace(prefix)+" "+suffix, width)
	}

	return prefix + buildRail(state, railWidth) + " " + suffix
}
