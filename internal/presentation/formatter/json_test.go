package formatter

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONFormatter(t *testing.T) {
	formatter := NewJSONFormatter()
	if formatter == nil {
		t.Fatal("NewJSONFormatter returned nil")
	}
}

func TestJSONFormatterFormat(t *testing.T) {
	formatter := NewJSONFormatter()

	rows := []SessionRow{
		{
			SessionID:    "0a1b2c3d",
			Project:      "alpha",
			Title:        "deploy run",
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

	// Round-trips back to the same rows
	var decoded []SessionRow
	if err := json.Unmarshal([]byte(output), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v\nGot:\n%s", err, output)
	}
	if len(decoded) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(decoded))
	}
	if decoded[0] != rows[0] || decoded[1] != rows[1] {
		t.Errorf("Round-trip mismatch:\n%+v\n%+v", decoded, rows)
	}

	// Field names stay snake_case
	for _, key := range []string{`"session_id"`, `"output_bytes"`, `"task_complete"`, `"skipped_lines"`} {
		if !strings.Contains(output, key) {
			t.Errorf("Expected key %s in output", key)
		}
	}

	// Empty title is omitted
	if strings.Count(output, `"title"`) != 1 {
		t.Errorf("Expected title key only on the row that has one.\nGot:\n%s", output)
	}
}

func TestJSONFormatterEmpty(t *testing.T) {
	formatter := NewJSONFormatter()

	output := captureStdout(t, func() error {
		return formatter.Format([]SessionRow{})
	})

	if strings.TrimSpace(output) != "[]" {
		t.Errorf("Expected empty array, got %q", output)
	}
}
