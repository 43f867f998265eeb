package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logflix/logflix/internal/core/model"
)

func TestKeyboardReaderParseInput(t *testing.T) {
	kr := &KeyboardReader{
		input: make(chan model.KeyEvent, 10),
		stop:  make(chan struct{}),
	}

	tests := []struct {
		name     string
		input    []byte
		expected *model.KeyEvent
	}{
		{
			name:     "regular_char",
			input:    []byte{'a'},
			expected: &model.KeyEvent{Key: 'a', Type: model.KeyChar},
		},
		{
			name:     "space",
			input:    []byte{' '},
			expected: &model.KeyEvent{Key: ' ', Type: model.KeyChar},
		},
		{
			name:     "escape",
			input:    []byte{27},
			expected: &model.KeyEvent{Key: 27, Type: model.KeyEscape},
		},
		{
			name:     "ctrl_c",
			input:    []byte{3},
			expected: &model.KeyEvent{Key: 3, Type: model.KeyInterrupt},
		},
		{
			name:     "enter_cr",
			input:    []byte{'\r'},
			expected: &model.KeyEvent{Key: '\r', Type: model.KeyEnter},
		},
		{
			name:     "arrow_up",
			input:    []byte{27, '[', 'A'},
			expected: &model.KeyEvent{Type: model.KeyArrowUp},
		},
		{
			name:     "arrow_down",
			input:    []byte{27, '[', 'B'},
			expected: &model.KeyEvent{Type: model.KeyArrowDown},
		},
		{
			name:     "arrow_right",
			input:    []byte{27, '[', 'C'},
			expected: &model.KeyEvent{Type: model.KeyArrowRight},
		},
		{
			name:     "arrow_left",
			input:    []byte{27, '[', 'D'},
			expected: &model.KeyEvent{Type: model.KeyArrowLeft},
		},
		{
			name:  "unknown_csi_sequence",
			input: []byte{27, '[', 'Z'},
		},
		{
			name:  "truncated_escape_sequence",
			input: []byte{27, '['},
		},
		{
			name:  "empty_input",
			input: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := kr.parseInput(tt.input)
			if tt.expected == nil {
				assert.Nil(t, event)
				return
			}
			require.NotNil(t, event)
			assert.Equal(t, *tt.expected, *event)
		})
	}
}

func TestSessionSorter(t *testing.T) {
	build := func() []*model.SessionSummary {
		return []*model.SessionSummary{
			{Project: "beta", RecordedAt: 200, Duration: 30, EventCount: 10},
			{Project: "alpha", RecordedAt: 300, Duration: 10, EventCount: 50},
			{Project: "gamma", RecordedAt: 100, Duration: 90, EventCount: 5},
		}
	}

	tests := []struct {
		name         string
		sorter       *SessionSorter
		wantProjects []string
	}{
		{
			name:         "default_newest_first",
			sorter:       NewSessionSorter(),
			wantProjects: []string{"alpha", "beta", "gamma"},
		},
		{
			name:         "duration_descending",
			sorter:       NewSessionSorter().WithField(SortByDuration),
			wantProjects: []string{"gamma", "beta", "alpha"},
		},
		{
			name:         "events_ascending",
			sorter:       NewSessionSorter().WithField(SortByEvents).WithOrder(SortAscending),
			wantProjects: []string{"gamma", "beta", "alpha"},
		},
		{
			name:         "project_ascending",
			sorter:       NewSessionSorter().WithField(SortByProject).WithOrder(SortAscending),
			wantProjects: []string{"alpha", "beta", "gamma"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions := build()
			tt.sorter.Sort(sessions)

			got := make([]string, len(sessions))
			for i, s := range sessions {
				got[i] = s.Project
			}
			assert.Equal(t, tt.wantProjects, got)
		})
	}
}

func TestParseSortField(t *testing.T) {
	assert.Equal(t, SortByDuration, ParseSortField("duration"))
	assert.Equal(t, SortByEvents, ParseSortField("events"))
	assert.Equal(t, SortByProject, ParseSortField("project"))
	assert.Equal(t, SortByTime, ParseSortField("recorded"))
	assert.Equal(t, SortByTime, ParseSortField(""))
}
