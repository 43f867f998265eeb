package constants

import "time"

const (
	// Playback clock
	MinTickDelay     = 10 * time.Millisecond
	DefaultSpeed     = 1.0
	SeekStepSeconds  = 5.0
	MinScrubInterval = 50 * time.Millisecond

	// Synthetic timeline markers
	MarkerSpacingSeconds = 30.0
	MinSyntheticSegments = 3
	MaxSyntheticSegments = 8

	// Follow mode
	FollowDebounce = 200 * time.Millisecond

	// Player UI refresh cadence for the transport bar clock
	RedrawInterval = 1 * time.Second

	// Cast line scanning
	ScanBufferSize    = 64 * 1024
	MaxScanBufferSize = 10 * 1024 * 1024
)

// Speeds is the ordered set of playback rates the player cycles through.
var Speeds = []float64{0.5, 1.0, 2.0, 4.0}
