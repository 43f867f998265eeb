package formatter

import (
	"encoding/csv"
	"strings"
	"testing"
)

func TestNewCSVFormatter(t *testing.T) {
	formatter := NewCSVFormatter()
	if formatter == nil {
		t.Fatal("NewCSVFormatter returned nil")
	}
}

func TestCSVFormatterFormat(t *testing.T) {
	formatter := NewCSVFormatter()

	rows := []SessionRow{
		{
			SessionID:    "0a1b2c3d",
			Project:      "alpha",
			Title:        "fix bug, add tests",
			Recorded:     "2026-01-15 10:30",
			Duration:     125.4,
			Events:       1234,
			Outputs:      1200,
			OutputBytes:  2048,
			Annotations:  3,
			SkippedLines: 1,
			TaskComplete: true,
		},
		{
			SessionID: "9f8e7d6c",
			Project:   "beta",
			Recorded:  "2026-01-16 09:00",
			Duration:  35.0,
			Events:    200,
		},
	}

	output := captureStdout(t, func() error {
		return formatter.Format(rows)
	})

	records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v\nGot:\n%s", err, output)
	}

	if len(records) != 3 {
		t.Fatalf("Expected header + 2 records, got %d", len(records))
	}

	header := records[0]
	if header[0] != "Session" || header[len(header)-1] != "Complete" {
		t.Errorf("Unexpected header: %v", header)
	}

	first := records[1]
	want := []string{
		"0a1b2c3d", "alpha", "fix bug, add tests", "2026-01-15 10:30",
		"125.40", "1234", "1200", "2048", "3", "1", "true",
	}
	if len(first) != len(want) {
		t.Fatalf("Expected %d fields, got %d: %v", len(want), len(first), first)
	}
	for i, value := range want {
		if first[i] != value {
			t.Errorf("Field %d: expected %q, got %q", i, value, first[i])
		}
	}

	second := records[2]
	if second[0] != "9f8e7d6c" || second[10] != "false" {
		t.Errorf("Unexpected second record: %v", second)
	}
}

func TestCSVFormatterEmpty(t *testing.T) {
	formatter := NewCSVFormatter()

	output := captureStdout(t, func() error {
		return formatter.Format([]SessionRow{})
	})

	records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected header only, got %d records", len(records))
	}
}
