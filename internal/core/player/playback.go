// Package player implements the playback engine over a parsed cast
// document: a virtual-time cursor driven event-to-event by one-shot ticks,
// plus pure derivations of what the screen shows at any moment.
package player

import (
	"time"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/constants"
	"github.com/logflix/logflix/internal/core/model"
)

// Playback holds the mutable clock state for one viewing session. It is
// owned by exactly one goroutine (the controller loop, or one websocket
// connection); it performs no locking of its own.
type Playback struct {
	doc *cast.Document

	virtualTime float64
	playing     bool
	speed       float64
	scrubbing   bool
	wasPlaying  bool // play state captured when the current scrub began
}

// NewPlayback creates a stopped playback positioned at the start.
func NewPlayback(doc *cast.Document) *Playback {
	if doc == nil {
		doc = &cast.Document{}
	}
	return &Playback{
		doc:   doc,
		speed: constants.DefaultSpeed,
	}
}

// Document returns the parsed cast driving this playback.
func (p *Playback) Document() *cast.Document {
	return p.doc
}

// Replace swaps in new content, used by follow mode when the cast grows.
// The cursor survives when it still fits inside the new timeline, otherwise
// playback rewinds to the start. Callers must cancel any pending tick first.
func (p *Playback) Replace(doc *cast.Document) {
	if doc == nil {
		doc = &cast.Document{}
	}
	p.doc = doc
	if p.virtualTime > doc.MaxTime {
		p.virtualTime = 0
		p.playing = false
	}
	if doc.Empty() {
		p.playing = false
	}
}

func (p *Playback) VirtualTime() float64 { return p.virtualTime }
func (p *Playback) Playing() bool        { return p.playing }
func (p *Playback) Scrubbing() bool      { return p.scrubbing }
func (p *Playback) Speed() float64       { return p.speed }
func (p *Playback) MaxTime() float64     { return p.doc.MaxTime }
func (p *Playback) Empty() bool          { return p.doc.Empty() }

// Play starts the clock. On an empty document this is a no-op so that no
// tick is ever scheduled for a session with nothing to show.
func (p *Playback) Play() {
	if p.doc.Empty() {
		return
	}
	if p.scrubbing {
		p.wasPlaying = true
		return
	}
	p.playing = true
}

// Pause stops the clock without moving the cursor.
func (p *Playback) Pause() {
	if p.scrubbing {
		p.wasPlaying = false
		return
	}
	p.playing = false
}

// Toggle flips between playing and stopped. At the end of the timeline it
// restarts from the beginning, matching what a viewer expects from a replay
// control.
func (p *Playback) Toggle() {
	if p.playing {
		p.Pause()
		return
	}
	if !p.doc.Empty() && !p.scrubbing && p.virtualTime >= p.doc.MaxTime {
		p.virtualTime = 0
	}
	p.Play()
}

// Reset rewinds to the start and stops.
func (p *Playback) Reset() {
	p.virtualTime = 0
	p.playing = false
	p.scrubbing = false
	p.wasPlaying = false
}

// SetSpeed applies a multiplier from the supported set; anything else is
// ignored.
func (p *Playback) SetSpeed(speed float64) {
	for _, s := range constants.Speeds {
		if s == speed {
			p.speed = speed
			return
		}
	}
}

// CycleSpeed steps through the supported multipliers, clamping at the ends.
func (p *Playback) CycleSpeed(direction int) {
	idx := 0
	for i, s := range constants.Speeds {
		if s == p.speed {
			idx = i
			break
		}
	}
	idx += direction
	if idx < 0 {
		idx = 0
	}
	if idx > len(constants.Speeds)-1 {
		idx = len(constants.Speeds) - 1
	}
	p.speed = constants.Speeds[idx]
}

// SeekTo moves the cursor to an absolute time, clamped to the timeline. It
// never changes play state; the scrub gestures own that.
func (p *Playback) SeekTo(t float64) {
	if t < 0 {
		t = 0
	}
	if t > p.doc.MaxTime {
		t = p.doc.MaxTime
	}
	p.virtualTime = t
}

// SeekBy moves the cursor relative to its current position.
func (p *Playback) SeekBy(delta float64) {
	p.SeekTo(p.virtualTime + delta)
}

// Markers derives the seek targets for the current document.
func (p *Playback) Markers() []model.Marker {
	return Markers(p.doc.Annotations, p.doc.MaxTime)
}

// SeekToMarker jumps to the marker at index; out-of-range indices are
// ignored.
func (p *Playback) SeekToMarker(index int) {
	markers := p.Markers()
	if index < 0 || index >= len(markers) {
		return
	}
	p.SeekTo(markers[index].Time)
}

// SeekToNextMarker jumps to the first marker strictly after the cursor.
func (p *Playback) SeekToNextMarker() {
	for _, m := range p.Markers() {
		if m.Time > p.virtualTime {
			p.SeekTo(m.Time)
			return
		}
	}
}

// SeekToPrevMarker jumps to the last marker strictly before the cursor.
func (p *Playback) SeekToPrevMarker() {
	markers := p.Markers()
	for i := len(markers) - 1; i >= 0; i-- {
		if markers[i].Time < p.virtualTime {
			p.SeekTo(markers[i].Time)
			return
		}
	}
	p.SeekTo(0)
}

// BeginScrub enters the scrubbing state, remembering whether the clock was
// running so EndScrub can restore it.
func (p *Playback) BeginScrub() {
	if p.scrubbing {
		return
	}
	p.wasPlaying = p.playing
	p.playing = false
	p.scrubbing = true
}

// EndScrub leaves the scrubbing state and restores the captured play state.
// Events skipped during the scrub are never replayed; the next render
// derives directly from the new cursor position.
func (p *Playback) EndScrub() {
	if !p.scrubbing {
		return
	}
	p.scrubbing = false
	p.playing = p.wasPlaying && !p.doc.Empty()
	p.wasPlaying = false
}

// Schedule computes the next one-shot tick for the current state. When the
// cursor has passed the final event the clock stops and snaps to the end,
// so a completed session always shows its full output. ok is false whenever
// no tick should be armed.
func (p *Playback) Schedule() (delay time.Duration, target float64, ok bool) {
	if !p.playing || p.scrubbing || p.doc.Empty() {
		return 0, 0, false
	}

	next, found := nextEventTime(p.doc.Events, p.virtualTime)
	if !found {
		p.playing = false
		p.virtualTime = p.doc.MaxTime
		return 0, 0, false
	}

	delay = time.Duration((next - p.virtualTime) / p.speed * float64(time.Second))
	if delay < constants.MinTickDelay {
		delay = constants.MinTickDelay
	}
	return delay, next, true
}

// AdvanceTo applies a fired tick, moving the cursor to the scheduled event
// time. The cancel-then-arm discipline in the controller guarantees no
// stale tick reaches a playback whose state changed in between.
func (p *Playback) AdvanceTo(target float64) {
	p.SeekTo(target)
}

// nextEventTime finds the earliest event time strictly after t.
func nextEventTime(events []model.Event, t float64) (float64, bool) {
	for _, ev := range events {
		if ev.Time > t {
			return ev.Time, true
		}
	}
	return 0, false
}
