package layout

import (
	"testing"
)

func TestPadString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		width     int
		leftAlign bool
		want      string
	}{
		{
			name:      "left_align_pads_right",
			input:     "abc",
			width:     6,
			leftAlign: true,
			want:      "abc   ",
		},
		{
			name:      "right_align_pads_left",
			input:     "abc",
			width:     6,
			leftAlign: false,
			want:      "   abc",
		},
		{
			name:      "already_wide_enough",
			input:     "abcdef",
			width:     4,
			leftAlign: true,
			want:      "abcdef",
		},
		{
			name:      "wide_runes_count_double",
			input:     "日本",
			width:     6,
			leftAlign: true,
			want:      "日本  ",
		},
		{
			name:      "empty_string",
			input:     "",
			width:     3,
			leftAlign: true,
			want:      "   ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sharedSizer.PadString(tt.input, tt.width, tt.leftAlign)
			if got != tt.want {
				t.Errorf("PadString(%q, %d, %v) = %q, want %q", tt.input, tt.width, tt.leftAlign, got, tt.want)
			}
		})
	}
}

func TestClipString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  string
	}{
		{
			name:  "fits_untouched",
			input: "hello",
			width: 10,
			want:  "hello",
		},
		{
			name:  "clipped_at_width",
			input: "abcdefghij",
			width: 4,
			want:  "abcd",
		},
		{
			name:  "wide_rune_not_split",
			input: "ab日x",
			width: 3,
			want:  "ab",
		},
		{
			name:  "zero_width",
			input: "abc",
			width: 0,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sharedSizer.ClipString(tt.input, tt.width)
			if got != tt.want {
				t.Errorf("ClipString(%q, %d) = %q, want %q", tt.input, tt.width, got, tt.want)
			}
			if sharedSizer.displayWidth(got) > tt.width {
				t.Errorf("ClipString(%q, %d) result wider than %d", tt.input, tt.width, tt.width)
			}
		})
	}
}

func TestGetMaxWidthBounds(t *testing.T) {
	width := sharedSizer.GetMaxWidth()
	if width < 40 || width > 120 {
		t.Errorf("GetMaxWidth() = %d, want within [40, 120]", width)
	}
}

func TestGetMaxHeightBounds(t *testing.T) {
	height := sharedSizer.GetMaxHeight()
	if height < 10 {
		t.Errorf("GetMaxHeight() = %d, want at least 10", height)
	}
}
