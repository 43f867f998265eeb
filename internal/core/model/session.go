package model

// Marker is a derived seek target on the playback timeline. Annotation
// markers carry the moment an agent narrated its thinking; navigation
// markers are synthetic evenly spaced fallbacks for annotation-free casts.
type Marker struct {
	Time   float64 `json:"time"`
	Source string  `json:"source"`
	Label  string  `json:"label,omitempty"`
}

// SessionSummary is the cached inventory row derived from one cast file.
type SessionSummary struct {
	SessionID    string  `json:"session_id"`
	Project      string  `json:"project"`
	Path         string  `json:"path"`
	Title        string  `json:"title,omitempty"`
	RecordedAt   int64   `json:"recorded_at"` // Unix seconds
	Duration     float64 `json:"duration"`    // seconds
	EventCount   int     `json:"event_count"`
	OutputCount  int     `json:"output_count"`
	OutputBytes  int64   `json:"output_bytes"`
	Annotations  int     `json:"annotations"`
	SkippedLines int     `json:"skipped_lines"`
	TaskComplete bool    `json:"task_complete"`
}

// FileEvent represents a file system event
type FileEvent struct {
	Path      string
	Operation string
}

// InteractionState represents the current player UI interaction state
type InteractionState struct {
	ShowHelp      bool
	LayoutStyle   int // 0: full (annotation panel), 1: compact
	ScrollOffset  int // manual viewport offset from the bottom, in lines
	Following     bool
	StatusMessage string
}

type LayoutParam struct {
	Timezone   string
	TimeFormat string
}
