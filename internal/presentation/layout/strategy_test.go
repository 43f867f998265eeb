package layout

import (
	"fmt"
	"strings"
	"testing"

	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
)

func TestGetLayoutStrategy(t *testing.T) {
	tests := []struct {
		name        string
		layoutStyle int
		wantType    string
	}{
		{
			name:        "full_player_style",
			layoutStyle: 0,
			wantType:    "*layout.FullLayoutStrategy",
		},
		{
			name:        "compact_player_style",
			layoutStyle: 1,
			wantType:    "*layout.CompactLayoutStrategy",
		},
		{
			name:        "unknown_style_defaults_to_full",
			layoutStyle: 99,
			wantType:    "*layout.FullLayoutStrategy",
		},
		{
			name:        "negative_style_defaults_to_full",
			layoutStyle: -1,
			wantType:    "*layout.FullLayoutStrategy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy := GetLayoutStrategy(tt.layoutStyle)
			if strategy == nil {
				t.Fatal("GetLayoutStrategy returned nil")
			}
			if got := fmt.Sprintf("%T", strategy); got != tt.wantType {
				t.Errorf("GetLayoutStrategy(%d) = %s, want %s", tt.layoutStyle, got, tt.wantType)
			}
		})
	}
}

func TestStrategyNames(t *testing.T) {
	if got := (&FullLayoutStrategy{}).GetName(); got != "Full Player" {
		t.Errorf("FullLayoutStrategy.GetName() = %q", got)
	}
	if got := (&CompactLayoutStrategy{}).GetName(); got != "Compact Player" {
		t.Errorf("CompactLayoutStrategy.GetName() = %q", got)
	}
}

func playerFrame(text string) *player.Frame {
	return &player.Frame{
		Path:    "/runs/alpha/abc123.cast",
		Header:  model.Header{Title: "demo"},
		MaxTime: 10,
		Speed:   1.0,
		Text:    text,
	}
}

func TestFullLayoutGeometry(t *testing.T) {
	s := &FullLayoutStrategy{}
	param := model.LayoutParam{Timezone: "UTC"}

	lines := s.Render(playerFrame("alpha\nbeta"), param)

	maxWidth := sharedSizer.GetMaxWidth()
	paneHeight := sharedSizer.GetMaxHeight() - fullChromeRows
	if paneHeight < 3 {
		paneHeight = 3
	}
	if len(lines) != paneHeight+fullChromeRows {
		t.Fatalf("Render() produced %d lines, want %d", len(lines), paneHeight+fullChromeRows)
	}

	if lines[0] != s.TopBorder(maxWidth) {
		t.Errorf("first line = %q, want top border", lines[0])
	}
	if lines[len(lines)-2] != s.BottomBorder(maxWidth) {
		t.Errorf("second to last line = %q, want bottom border", lines[len(lines)-2])
	}
	if !strings.Contains(lines[len(lines)-1], "space play/pause") {
		t.Errorf("footer = %q, want key hints", lines[len(lines)-1])
	}

	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "alpha") || !strings.Contains(joined, "beta") {
		t.Errorf("Render() output missing pane text:\n%s", joined)
	}
}

func TestCompactLayoutGeometry(t *testing.T) {
	s := &CompactLayoutStrategy{}
	param := model.LayoutParam{Timezone: "UTC"}

	lines := s.Render(playerFrame("alpha"), param)

	maxWidth := sharedSizer.GetMaxWidth()
	paneHeight := sharedSizer.GetMaxHeight() - compactChromeRows
	if paneHeight < 3 {
		paneHeight = 3
	}
	if len(lines) != paneHeight+compactChromeRows {
		t.Fatalf("Render() produced %d lines, want %d", len(lines), paneHeight+compactChromeRows)
	}

	if lines[len(lines)-1] != s.BottomBorder(maxWidth) {
		t.Errorf("last line = %q, want bottom border", lines[len(lines)-1])
	}
	if strings.Contains(strings.Join(lines, "\n"), "space play/pause") {
		t.Error("compact layout should not render the key-hint footer")
	}
}

func TestFullLayoutAnnotationPanel(t *testing.T) {
	s := &FullLayoutStrategy{}
	param := model.LayoutParam{Timezone: "UTC"}

	frame := playerFrame("$ make")
	frame.Annotation = &model.Annotation{Explanation: "build finished", TaskComplete: true}

	joined := strings.Join(s.Render(frame, param), "\n")
	if !strings.Contains(joined, "✅ build finished") {
		t.Errorf("Render() missing annotation panel:\n%s", joined)
	}
}

func TestCompactLayoutSkipsAnnotationPanel(t *testing.T) {
	s := &CompactLayoutStrategy{}
	param := model.LayoutParam{Timezone: "UTC"}

	frame := playerFrame("$ make")
	frame.Annotation = &model.Annotation{Explanation: "build finished"}

	joined := strings.Join(s.Render(frame, param), "\n")
	if strings.Contains(joined, "build finished") {
		t.Errorf("compact layout should not render annotations:\n%s", joined)
	}
}

func TestFooterShowsStatusMessage(t *testing.T) {
	s := &FullLayoutStrategy{}
	param := model.LayoutParam{Timezone: "UTC"}

	frame := playerFrame("alpha")
	frame.Interaction.StatusMessage = "speed 2x"

	lines := s.Render(frame, param)
	footer := lines[len(lines)-1]
	if !strings.Contains(footer, "speed 2x") {
		t.Errorf("footer = %q, want status message", footer)
	}
	if strings.Contains(footer, "space play/pause") {
		t.Errorf("footer = %q, status message should replace key hints", footer)
	}
}

func TestAnnotationRows(t *testing.T) {
	tests := []struct {
		name       string
		annotation *model.Annotation
		width      int
		wantFirst  string
		wantSecond string
	}{
		{
			name:       "nil_annotation",
			annotation: nil,
			width:      40,
			wantFirst:  "",
			wantSecond: "",
		},
		{
			name:       "explanation_on_one_row",
			annotation: &model.Annotation{Explanation: "build finished"},
			width:      40,
			wantFirst:  "📍 build finished",
			wantSecond: "",
		},
		{
			name:       "task_complete_prefix",
			annotation: &model.Annotation{Explanation: "done", TaskComplete: true},
			width:      40,
			wantFirst:  "✅ done",
			wantSecond: "",
		},
		{
			name:       "falls_back_to_analysis",
			annotation: &model.Annotation{Analysis: "inspecting the build"},
			width:      40,
			wantFirst:  "📍 inspecting the build",
			wantSecond: "",
		},
		{
			name:       "falls_back_to_raw",
			annotation: &model.Annotation{Raw: "raw note"},
			width:      40,
			wantFirst:  "📍 raw note",
			wantSecond: "",
		},
		{
			name:       "whitespace_collapsed",
			annotation: &model.Annotation{Explanation: "a  b\n c"},
			width:      40,
			wantFirst:  "📍 a b c",
			wantSecond: "",
		},
		{
			name:       "wraps_to_indented_second_row",
			annotation: &model.Annotation{Explanation: "alpha beta gamma"},
			width:      12,
			wantFirst:  "📍 alpha",
			wantSecond: "   beta gamm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, second := annotationRows(tt.annotation, tt.width)
			if first != tt.wantFirst {
				t.Errorf("first row = %q, want %q", first, tt.wantFirst)
			}
			if second != tt.wantSecond {
				t.Errorf("second row = %q, want %q", second, tt.wantSecond)
			}
		})
	}
}

func TestSplitAtWidth(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		wantHead string
		wantRest string
	}{
		{
			name:     "fits_entirely",
			text:     "short",
			width:    10,
			wantHead: "short",
			wantRest: "",
		},
		{
			name:     "breaks_at_last_space",
			text:     "alpha beta",
			width:    7,
			wantHead: "alpha",
			wantRest: "beta",
		},
		{
			name:     "hard_break_without_space",
			text:     "abcdefgh",
			width:    4,
			wantHead: "abcd",
			wantRest: "efgh",
		},
		{
			name:     "wide_runes_not_split",
			text:     "日本語",
			width:    4,
			wantHead: "日本",
			wantRest: "語",
		},
		{
			name:     "exact_fit",
			text:     "abcd",
			width:    4,
			wantHead: "abcd",
			wantRest: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, rest := splitAtWidth(tt.text, tt.width)
			if head != tt.wantHead || rest != tt.wantRest {
				t.Errorf("splitAtWidth(%q, %d) = (%q, %q), want (%q, %q)",
					tt.text, tt.width, head, rest, tt.wantHead, tt.wantRest)
			}
		})
	}
}
