package player

import (
	"context"
	"time"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/constants"
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/util"
)

// Frame is one snapshot of the player handed to the display layer. Every
// field is derived; the renderer never reaches back into the playback.
type Frame struct {
	Path        string
	Header      model.Header
	Empty       bool
	Now         float64
	MaxTime     float64
	Speed       float64
	Playing     bool
	Scrubbing   bool
	Text        string
	Annotation  *model.Annotation
	Markers     []model.Marker
	Interaction model.InteractionState
}

// Renderer draws frames to some surface. The terminal display implements
// it; controller tests install a recording stub.
type Renderer interface {
	Render(frame Frame) error
	Close() error
}

// Loader re-reads the cast backing a controller. Follow mode calls it when
// the file on disk changes.
type Loader func() (*cast.Document, error)

// Config wires a controller to its collaborators. Keys is required; Files
// and Loader may be nil when follow mode is off.
type Config struct {
	Path     string
	Document *cast.Document
	Renderer Renderer
	Keys     <-chan model.KeyEvent
	Files    <-chan model.FileEvent
	Loader   Loader
	Follow   bool
}

// Controller runs the interactive playback loop: one goroutine owning the
// playback state, fed by keyboard events, file events and its own tick
// timer. At most one tick is pending at any moment; every operation that
// changes the clock cancels the pending tick before arming a fresh one, so
// a fired tick always carries a target computed from current state.
type Controller struct {
	playback *Playback
	renderer Renderer
	keys     <-chan model.KeyEvent
	files    <-chan model.FileEvent
	loader   Loader
	path     string

	interaction model.InteractionState

	tickTimer  *time.Timer
	tickC      <-chan time.Time
	tickTarget float64

	lastReload time.Time
}

// NewController builds a controller from its wiring.
func NewController(cfg Config) *Controller {
	c := &Controller{
		playback: NewPlayback(cfg.Document),
		renderer: cfg.Renderer,
		keys:     cfg.Keys,
		files:    cfg.Files,
		loader:   cfg.Loader,
		path:     cfg.Path,
	}
	c.interaction.Following = cfg.Follow
	return c
}

// Playback exposes the underlying clock for command-level setup.
func (c *Controller) Playback() *Playback {
	return c.playback
}

// Run drives the player until the user quits or the context is cancelled.
func (c *Controller) Run(ctx context.Context) error {
	defer c.closeRenderer()

	redraw := time.NewTicker(constants.RedrawInterval)
	defer redraw.Stop()
	defer c.cancelTick()

	c.armTick()
	c.render()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-c.tickC:
			c.tickC = nil
			c.tickTimer = nil
			c.playback.AdvanceTo(c.tickTarget)
			c.armTick()
			c.render()

		case <-redraw.C:
			c.render()

		case ev, ok := <-c.files:
			if !ok {
				c.files = nil
				continue
			}
			c.handleFileEvent(ev)
			c.render()

		case key, ok := <-c.keys:
			if !ok {
				return nil
			}
			if quit := c.handleKey(key); quit {
				return nil
			}
			c.render()
		}
	}
}

// armTick cancels any pending tick and schedules the next one. When the
// playback has nothing to schedule (stopped, scrubbing, finished) it leaves
// tickC nil, which blocks that select case.
func (c *Controller) armTick() {
	c.cancelTick()
	delay, target, ok := c.playback.Schedule()
	if !ok {
		return
	}
	c.tickTimer = time.NewTimer(delay)
	c.tickC = c.tickTimer.C
	c.tickTarget = target
}

func (c *Controller) cancelTick() {
	if c.tickTimer != nil {
		c.tickTimer.Stop()
		c.tickTimer = nil
		c.tickC = nil
	}
}

// handleKey applies one keyboard event and reports whether to quit. Only
// clock-affecting keys re-arm the tick; scroll and overlay toggles leave a
// pending tick undisturbed so held keys cannot starve playback.
func (c *Controller) handleKey(key model.KeyEvent) bool {
	switch key.Type {
	case model.KeyEscape, model.KeyInterrupt:
		return true

	case model.KeyArrowLeft:
		c.playback.SeekBy(-constants.SeekStepSeconds)
		c.armTick()

	case model.KeyArrowRight:
		c.playback.SeekBy(constants.SeekStepSeconds)
		c.armTick()

	case model.KeyArrowUp:
		c.interaction.ScrollOffset++

	case model.KeyArrowDown:
		if c.interaction.ScrollOffset > 0 {
			c.interaction.ScrollOffset--
		}

	case model.KeyChar:
		return c.handleChar(key.Key)
	}
	return false
}

func (c *Controller) handleChar(key rune) bool {
	switch key {
	case 'q', 'Q':
		return true

	case ' ':
		c.playback.Toggle()
		c.armTick()

	case 'r', 'R':
		c.playback.Reset()
		c.interaction.ScrollOffset = 0
		c.armTick()

	case 's', 'S':
		if c.playback.Scrubbing() {
			c.playback.EndScrub()
		} else {
			c.playback.BeginScrub()
		}
		c.armTick()

	case 'n', 'N':
		c.playback.SeekToNextMarker()
		c.armTick()

	case 'p', 'P':
		c.playback.SeekToPrevMarker()
		c.armTick()

	case '[', '-':
		c.playback.CycleSpeed(-1)
		c.armTick()

	case ']', '+', '=':
		c.playback.CycleSpeed(1)
		c.armTick()

	case 'f', 'F':
		c.interaction.Following = !c.interaction.Following
		if c.interaction.Following {
			c.interaction.StatusMessage = "Following"
			c.reload()
		} else {
			c.interaction.StatusMessage = ""
		}

	case 't', 'T':
		c.interaction.LayoutStyle = (c.interaction.LayoutStyle + 1) % 2

	case 'h', 'H', '?':
		c.interaction.ShowHelp = !c.interaction.ShowHelp
	}
	return false
}

// handleFileEvent reacts to the watched cast file changing on disk.
// Reloads are debounced because fsnotify delivers bursts of writes while a
// recorder is streaming.
func (c *Controller) handleFileEvent(ev model.FileEvent) {
	if !c.interaction.Following {
		return
	}
	if c.path != "" && ev.Path != c.path {
		return
	}
	if time.Since(c.lastReload) < constants.FollowDebounce {
		return
	}
	c.reload()
}

// reload re-parses the cast and swaps it in. A viewer parked at the end of
// the old timeline resumes automatically when new content arrives, which is
// what makes follow mode feel live.
func (c *Controller) reload() {
	if c.loader == nil {
		return
	}
	c.lastReload = time.Now()

	doc, err := c.loader()
	if err != nil {
		util.LogDebugf("Reload failed: %v", err)
		c.interaction.StatusMessage = "Reload failed"
		return
	}

	oldMax := c.playback.MaxTime()
	parkedAtEnd := !c.playback.Playing() && !c.playback.Scrubbing() &&
		c.playback.VirtualTime() >= oldMax

	c.cancelTick()
	c.playback.Replace(doc)
	if parkedAtEnd && doc.MaxTime > oldMax {
		c.playback.Play()
	}
	c.armTick()
}

// render derives a frame from current state and hands it to the renderer.
func (c *Controller) render() {
	if c.renderer == nil {
		return
	}

	doc := c.playback.Document()
	frame := Frame{
		Path:        c.path,
		Empty:       doc.Empty(),
		Now:         c.playback.VirtualTime(),
		MaxTime:     doc.MaxTime,
		Speed:       c.playback.Speed(),
		Playing:     c.playback.Playing(),
		Scrubbing:   c.playback.Scrubbing(),
		Text:        c.playback.VisibleText(),
		Markers:     c.playback.Markers(),
		Interaction: c.interaction,
	}
	if doc.Header != nil {
		frame.Header = *doc.Header
	}
	if ann, ok := c.playback.CurrentAnnotation(); ok {
		frame.Annotation = &ann
	}

	if err := c.renderer.Render(frame); err != nil {
		util.LogDebugf("Render failed: %v", err)
	}
}

func (c *Controller) closeRenderer() {
	if c.renderer == nil {
		return
	}
	if err := c.renderer.Close(); err != nil {
		util.LogDebugf("Renderer close failed: %v", err)
	}
}
