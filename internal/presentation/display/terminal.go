package display

import (
	"fmt"
	"strings"

	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
	"github.com/logflix/logflix/internal/presentation/layout"
	"github.com/logflix/logflix/internal/util"
)

// TerminalDisplay paints player frames onto the alternate screen buffer. It
// implements player.Renderer. Repaints are differential: only lines that
// changed since the previous frame are rewritten, which keeps a running
// playback from flickering and preserves text selection in most terminals.
type TerminalDisplay struct {
	param             model.LayoutParam
	inAlternateScreen bool
	previousScreen    []string
	isFirstRender     bool
	lastLayoutStyle   int
	lastShowHelp      bool
}

func NewTerminalDisplay(param model.LayoutParam) *TerminalDisplay {
	return &TerminalDisplay{
		param:          param,
		previousScreen: make([]string, 0),
		isFirstRender:  true,
	}
}

// Render draws one frame. The first call switches to the alternate screen;
// Close restores the terminal.
func (td *TerminalDisplay) Render(frame player.Frame) error {
	td.EnterAlternateScreen()

	if frame.Interaction.ShowHelp {
		if !td.lastShowHelp {
			td.clearForTransition()
		}
		td.lastShowHelp = true
		td.paint(helpLines())
		return nil
	}
	if td.lastShowHelp {
		td.clearForTransition()
		td.lastShowHelp = false
	}

	if frame.Empty {
		td.paint(emptyLines(frame.Path))
		return nil
	}

	if frame.Interaction.LayoutStyle != td.lastLayoutStyle {
		td.clearForTransition()
		td.lastLayoutStyle = frame.Interaction.LayoutStyle
	}

	strategy := layout.GetLayoutStrategy(frame.Interaction.LayoutStyle)
	td.paint(strategy.Render(&frame, td.param))
	return nil
}

// Close leaves the alternate screen and restores the cursor.
func (td *TerminalDisplay) Close() error {
	td.ExitAlternateScreen()
	return nil
}

// EnterAlternateScreen switches to the alternate screen buffer.
func (td *TerminalDisplay) EnterAlternateScreen() {
	if !td.inAlternateScreen {
		fmt.Print("\033[?1049h")
		fmt.Print(util.ClearScreen)
		fmt.Print(util.ClearScrollback)
		fmt.Print(util.ResetScrollRegion)
		fmt.Print(util.HideCursor)
		fmt.Print(util.MoveCursorHome)
		td.inAlternateScreen = true
		td.isFirstRender = true
	}
}

// ExitAlternateScreen returns to the normal screen buffer.
func (td *TerminalDisplay) ExitAlternateScreen() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.MoveCursorHome)
		fmt.Print(util.ShowCursor)
		fmt.Print("\033[?1049l")
		td.inAlternateScreen = false
	}
}

// clearForTransition wipes the screen and forgets the previous frame, so the
// next paint starts from a clean slate. Used when the screen geometry
// changes wholesale (overlay toggles, layout switches).
func (td *TerminalDisplay) clearForTransition() {
	if td.inAlternateScreen {
		fmt.Print(util.ClearScreen)
		fmt.Print(util.ClearScrollback)
		fmt.Print(util.MoveCursorHome)
	}
	td.previousScreen = make([]string, 0)
	td.isFirstRender = true
}

// paint writes the frame's lines, rewriting only rows that differ from the
// previous paint.
func (td *TerminalDisplay) paint(lines []string) {
	if td.isFirstRender {
		fmt.Print(util.MoveCursorHome)
		for i, line := range lines {
			fmt.Print(util.MoveCursor(i+1, 1))
			fmt.Print(util.ClearLine)
			fmt.Print(line)
		}
		td.previousScreen = append(td.previousScreen[:0], lines...)
		td.isFirstRender = false
		return
	}

	for i, line := range lines {
		if i < len(td.previousScreen) && td.previousScreen[i] == line {
			continue
		}
		fmt.Print(util.MoveCursor(i+1, 1))
		fmt.Print(util.ClearLine)
		fmt.Print(line)
	}
	// The previous frame may have had more rows (layout shrink on resize)
	for i := len(lines); i < len(td.previousScreen); i++ {
		fmt.Print(util.MoveCursor(i+1, 1))
		fmt.Print(util.ClearLine)
	}
	td.previousScreen = append(td.previousScreen[:0], lines...)
}

func helpLines() []string {
	return []string{
		"LogFlix Player - Help",
		strings.Repeat("═", 72),
		"",
		"Playback:",
		"  space     - Play / pause",
		"  r         - Reset to start",
		"  ← / →     - Seek back / forward 5s",
		"  n / p     - Jump to next / previous marker",
		"  s         - Toggle scrub mode (pauses while held, resumes after)",
		"  [ / ]     - Slower / faster (0.5x, 1x, 2x, 4x)",
		"",
		"View:",
		"  ↑ / ↓     - Scroll terminal output while paused",
		"  f         - Toggle follow mode (reload when the cast grows)",
		"  t         - Cycle layout (Full → Compact)",
		"  h or ?    - Show this help",
		"",
		"  q / Esc / Ctrl+C - Quit",
		"",
		strings.Repeat("═", 72),
		"Press 'h' to return...",
	}
}

func emptyLines(path string) []string {
	name := path
	if name == "" {
		name = "(no file)"
	}
	return []string{
		"",
		"",
		"  ╔════════════════════════════════════════════╗",
		"  ║                                            ║",
		"  ║         no terminal session data           ║",
		"  ║                                            ║",
		"  ╚════════════════════════════════════════════╝",
		"",
		"  " + name + " parsed to an empty timeline.",
		"",
		"  Press 'q' to quit.",
	}
}
