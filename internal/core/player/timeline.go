package player

import (
	"math"

	"github.com/logflix/logflix/internal/core/constants"
	"github.com/logflix/logflix/internal/core/model"
)

// Markers derives the timeline seek targets. Annotated sessions get one
// marker per annotation. Sessions without annotations get synthetic evenly
// spaced navigation markers so the seek bar stays usable: the count is
// clamp(floor(maxTime/30), 3, 8), placed at i*maxTime/count up to and
// including the end.
func Markers(annotations []model.Annotation, maxTime float64) []model.Marker {
	if len(annotations) > 0 {
		markers := make([]model.Marker, 0, len(annotations))
		for _, ann := range annotations {
			markers = append(markers, model.Marker{
				Time:   ann.Time,
				Source: model.MarkerAnnotation,
				Label:  markerLabel(ann),
			})
		}
		return markers
	}

	if maxTime <= 0 {
		return nil
	}

	count := int(math.Floor(maxTime / constants.MarkerSpacingSeconds))
	if count < constants.MinSyntheticSegments {
		count = constants.MinSyntheticSegments
	}
	if count > constants.MaxSyntheticSegments {
		count = constants.MaxSyntheticSegments
	}

	markers := make([]model.Marker, 0, count)
	for i := 1; i <= count; i++ {
		markers = append(markers, model.Marker{
			Time:   float64(i) * maxTime / float64(count),
			Source: model.MarkerNavigation,
		})
	}
	return markers
}

// MarkerOrdinal reports the 1-based position indicator for t: the number of
// markers at or before t, never below 1 once any marker exists. Rendered as
// "N of TOTAL".
func MarkerOrdinal(markers []model.Marker, t float64) int {
	if len(markers) == 0 {
		return 0
	}
	count := 0
	for _, m := range markers {
		if m.Time <= t {
			count++
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}

// markerLabel picks the short description shown beside an annotation
// marker.
func markerLabel(ann model.Annotation) string {
	switch {
	case ann.Explanation != "":
		return ann.Explanation
	case ann.Analysis != "":
		return ann.Analysis
	default:
		return ann.Raw
	}
}
