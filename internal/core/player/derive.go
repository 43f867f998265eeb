package player

import (
	"strings"

	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/sanitize"
)

// VisibleText derives the sanitized terminal content at virtual time t: the
// concatenation, in file order, of every output payload stamped at or
// before t. It is recomputed from scratch on every call rather than patched
// incrementally; logs are bounded recordings, and recomputation can never
// double-apply escape stripping to already-stripped text.
func VisibleText(events []model.Event, t float64) string {
	var b strings.Builder
	for _, ev := range events {
		if ev.Kind == model.KindOutput && ev.Time <= t {
			b.WriteString(ev.Payload)
		}
	}
	return sanitize.Render(b.String())
}

// CurrentAnnotation derives the most recent annotation at or before t. ok
// is false when no annotation has occurred yet.
func CurrentAnnotation(annotations []model.Annotation, t float64) (model.Annotation, bool) {
	var (
		current model.Annotation
		found   bool
	)
	for _, ann := range annotations {
		if ann.Time <= t {
			current = ann
			found = true
		}
	}
	return current, found
}

// VisibleText derives the screen content at the playback cursor.
func (p *Playback) VisibleText() string {
	return VisibleText(p.doc.Events, p.virtualTime)
}

// CurrentAnnotation derives the active annotation at the playback cursor.
func (p *Playback) CurrentAnnotation() (model.Annotation, bool) {
	return CurrentAnnotation(p.doc.Annotations, p.virtualTime)
}
