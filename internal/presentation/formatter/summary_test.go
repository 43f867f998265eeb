package formatter

import (
	"strings"
	"testing"
)

func TestNewSummaryFormatter(t *testing.T) {
	formatter := NewSummaryFormatter()
	if formatter == nil {
		t.Fatal("NewSummaryFormatter returned nil")
	}
}

func TestSummaryFormatterFormat(t *testing.T) {
	formatter := NewSummaryFormatter()

	rows := []SessionRow{
		{
			SessionID:    "s1",
			Project:      "alpha",
			Recorded:     "2026-01-15 10:30",
			Duration:     60,
			Events:       100,
			OutputBytes:  1024,
			Annotations:  2,
			TaskComplete: true,
		},
		{
			SessionID:   "s2",
			Project:     "alpha",
			Recorded:    "2026-01-16 09:00",
			Duration:    40,
			Events:      50,
			OutputBytes: 512,
			Annotations: 1,
		},
		{
			SessionID:    "s3",
			Project:      "beta",
			Recorded:     "2026-01-17 11:00",
			Duration:     100,
			Events:       10,
			OutputBytes:  2048,
			TaskComplete: true,
		},
	}

	output := captureStdout(t, func() error {
		return formatter.Format(rows)
	})

	wantInBody := []string{
		"Terminal Session Summary",
		"Recorded: 2026-01-15 10:30 to 2026-01-17 11:00",
		"Sessions:    3",
		"Play Time:   03:20",
		"Events:      160",
		"Output:      3.5 KB",
		"Annotations: 3",
		"Completed:   2 of 3",
		"alpha:",
		"beta:",
		"Play Time:   01:40",
		"Completed:   1",
	}
	for _, want := range wantInBody {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q.\nGot:\n%s", want, output)
		}
	}

	// Projects are listed alphabetically
	if strings.Index(output, "alpha:") > strings.Index(output, "beta:") {
		t.Error("Expected alpha to be listed before beta")
	}
}

func TestSummaryFormatterEmpty(t *testing.T) {
	formatter := NewSummaryFormatter()

	output := captureStdout(t, func() error {
		return formatter.Format([]SessionRow{})
	})

	if !strings.Contains(output, "No sessions to summarize") {
		t.Errorf("Expected empty notice.\nGot:\n%s", output)
	}
}

func TestSummaryFormatterUnknownProject(t *testing.T) {
	formatter := NewSummaryFormatter()

	output := captureStdout(t, func() error {
		return formatter.Format([]SessionRow{
			{SessionID: "s1", Duration: 10, Events: 5},
		})
	})

	if !strings.Contains(output, "(unknown):") {
		t.Errorf("Expected placeholder for empty project name.\nGot:\n%s", output)
	}
}

func TestSummaryFormatterGroupByDay(t *testing.T) {
	formatter := NewSummaryFormatter().WithGroupBy("day")

	output := captureStdout(t, func() error {
		return formatter.Format([]SessionRow{
			{SessionID: "s1", Project: "alpha", Day: "2026-01-15", Duration: 60, Events: 10},
			{SessionID: "s2", Project: "beta", Day: "2026-01-15", Duration: 40, Events: 5},
			{SessionID: "s3", Project: "alpha", Day: "2026-01-16", Duration: 20, Events: 1},
		})
	})

	if !strings.Contains(output, "Days:") {
		t.Errorf("Expected day heading.\nGot:\n%s", output)
	}
	if !strings.Contains(output, "2026-01-15:") || !strings.Contains(output, "2026-01-16:") {
		t.Errorf("Expected per-day sections.\nGot:\n%s", output)
	}
	// Both 2026-01-15 sessions land in one group
	if !strings.Contains(output, "Sessions:    2") {
		t.Errorf("Expected merged day group with two sessions.\nGot:\n%s", output)
	}
	if strings.Contains(output, "alpha:") {
		t.Errorf("Did not expect project sections when grouping by day.\nGot:\n%s", output)
	}
}

func TestSummaryFormatterSingleDay(t *testing.T) {
	formatter := NewSummaryFormatter()

	output := captureStdout(t, func() error {
		return formatter.Format([]SessionRow{
			{SessionID: "s1", Project: "p", Recorded: "2026-01-15 10:30", Duration: 5},
		})
	})

	if !strings.Contains(output, "Recorded: 2026-01-15 10:30\n") {
		t.Errorf("Expected single recorded stamp without a range.\nGot:\n%s", output)
	}
}
