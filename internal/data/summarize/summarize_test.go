package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/logflix/logflix/internal/core/cast"
)

func TestSummarize(t *testing.T) {
	content := strings.Join([]string{
		`{"version": 2, "width": 80, "height": 24, "timestamp": 1700000000, "title": "deploy run"}`,
		`[0.0, "o", "deploying\r\n"]`,
		`[1.0, "i", "y"]`,
		`[2.5, "o", "done\r\n"]`,
		`not a json line`,
		`[4.0, "m", "{\"analysis\": \"rollout finished\", \"is_task_complete\": true}"]`,
	}, "\n")
	doc := cast.Parse(content)

	summary := Summarize("/data/casts/api-server/f3b1.cast", doc)

	assert.Equal(t, "f3b1", summary.SessionID)
	assert.Equal(t, "api-server", summary.Project)
	assert.Equal(t, "/data/casts/api-server/f3b1.cast", summary.Path)
	assert.Equal(t, "deploy run", summary.Title)
	assert.Equal(t, int64(1700000000), summary.RecordedAt)
	assert.Equal(t, 4.0, summary.Duration)
	assert.Equal(t, 4, summary.EventCount)
	assert.Equal(t, 2, summary.OutputCount)
	assert.Equal(t, int64(len("deploying\r\n")+len("done\r\n")), summary.OutputBytes)
	assert.Equal(t, 1, summary.Annotations)
	assert.Equal(t, 1, summary.SkippedLines)
	assert.True(t, summary.TaskComplete)
}

func TestSummarizeEmptyDocument(t *testing.T) {
	summary := Summarize("/data/casts/empty.cast", cast.Parse(""))

	assert.Equal(t, "empty", summary.SessionID)
	assert.Equal(t, "casts", summary.Project)
	assert.Zero(t, summary.Duration)
	assert.Zero(t, summary.EventCount)
	assert.False(t, summary.TaskComplete)
}

func TestSummarizeTitleFallsBackToCommand(t *testing.T) {
	doc := cast.Parse(`{"version": 2, "command": "make deploy"}`)

	summary := Summarize("/data/casts/demo/x.cast", doc)

	assert.Equal(t, "make deploy", summary.Title)
}

func TestSummarizeIncompleteTask(t *testing.T) {
	content := strings.Join([]string{
		`[0.0, "o", "working"]`,
		`[1.0, "m", "{\"analysis\": \"still going\", \"is_task_complete\": false}"]`,
	}, "\n")

	summary := Summarize("/data/casts/demo/y.cast", cast.Parse(content))

	assert.False(t, summary.TaskComplete)
	assert.Equal(t, 1, summary.Annotations)
}

func TestExtractSessionID(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "uuid_filename",
			path:     "/data/casts/proj/00aec530-0614-436f-a53b-faaa0b32f123.cast",
			expected: "00aec530-0614-436f-a53b-faaa0b32f123",
		},
		{
			name:     "plain_filename",
			path:     "/data/casts/proj/session.cast",
			expected: "session",
		},
		{
			name:     "no_extension",
			path:     "/data/casts/proj/session",
			expected: "session",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractSessionID(tt.path))
		})
	}
}

func TestExtractProjectName(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "plain_project_dir",
			path:     "/data/casts/api-server/session.cast",
			expected: "api-server",
		},
		{
			name:     "uuid_dir_includes_parent",
			path:     "/data/work/00aec530-0614-436f-a53b-faaa0b32f123/session.cast",
			expected: "work/00aec530-0614-436f-a53b-faaa0b32f123",
		},
		{
			name:     "uuid_dir_under_casts_root",
			path:     "/data/casts/00aec530-0614-436f-a53b-faaa0b32f123/session.cast",
			expected: "00aec530-0614-436f-a53b-faaa0b32f123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractProjectName(tt.path))
		})
	}
}
