package formatter

import (
	"time"

	"github.com/logflix/logflix/internal/core/model"
)

// SessionRow is one inventory line ready for rendering.
type SessionRow struct {
	SessionID    string  `json:"session_id"`
	Project      string  `json:"project"`
	Title        string  `json:"title,omitempty"`
	Recorded     string  `json:"recorded"`
	Day          string  `json:"-"`
	Duration     float64 `json:"duration"`
	Events       int     `json:"events"`
	Outputs      int     `json:"outputs"`
	OutputBytes  int64   `json:"output_bytes"`
	Annotations  int     `json:"annotations"`
	SkippedLines int     `json:"skipped_lines,omitempty"`
	TaskComplete bool    `json:"task_complete"`
}

// NewSessionRow derives a display row from a cached summary. The recorded-at
// column is rendered in the layout's timezone; an unlocatable timezone falls
// back to local time.
func NewSessionRow(s *model.SessionSummary, layout model.LayoutParam) SessionRow {
	format := layout.TimeFormat
	if format == "" {
		format = "2006-01-02 15:04"
	}

	recorded := ""
	day := ""
	if s.RecordedAt > 0 {
		loc := time.Local
		if layout.Timezone != "" && layout.Timezone != "Local" {
			if l, err := time.LoadLocation(layout.Timezone); err == nil {
				loc = l
			}
		}
		at := time.Unix(s.RecordedAt, 0).In(loc)
		recorded = at.Format(format)
		day = at.Format("2006-01-02")
	}

	return SessionRow{
		SessionID:    s.SessionID,
		Project:      s.Project,
		Title:        s.Title,
		Recorded:     recorded,
		Day:          day,
		Duration:     s.Duration,
		Events:       s.EventCount,
		Outputs:      s.OutputCount,
		OutputBytes:  s.OutputBytes,
		Annotations:  s.Annotations,
		SkippedLines: s.SkippedLines,
		TaskComplete: s.TaskComplete,
	}
}

// BuildRows converts summaries in order.
func BuildRows(summaries []*model.SessionSummary, layout model.LayoutParam) []SessionRow {
	rows := make([]SessionRow, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, NewSessionRow(s, layout))
	}
	return rows
}

func statusLabel(complete bool) string {
	if complete {
		return "done"
	}
	return "-"
}
