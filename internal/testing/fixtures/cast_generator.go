package fixtures

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// CastGenerator writes synthetic cast recordings for tests. Sessions are
// laid out as <baseDir>/<project>/<sessionID>.cast, which is the shape
// the scanner and inventory expect.
type CastGenerator struct {
	baseDir string
}

// NewCastGenerator creates a generator rooted at baseDir.
func NewCastGenerator(baseDir string) *CastGenerator {
	return &CastGenerator{
		baseDir: baseDir,
	}
}

// Header mirrors the cast header record for fixture writing.
type Header struct {
	Version   int    `json:"version"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Command   string `json:"command,omitempty"`
	Title     string `json:"title,omitempty"`
}

// Line renders one event record, the [time, kind, payload] triple.
func Line(t float64, kind, payload string) string {
	data, _ := json.Marshal([]any{t, kind, payload})
	return string(data)
}

// GenerateSimpleSession writes a short all-output session and returns its
// path. Timestamps are already zero-based, like a recorder that resets
// its clock at start.
func (g *CastGenerator) GenerateSimpleSession(project, sessionID string, recordedAt time.Time) (string, error) {
	lines := []string{
		Line(0, "o", "$ echo hello\r\n"),
		Line(0.4, "o", "hello\r\n"),
		Line(1.1, "i", "ls\n"),
		Line(1.5, "o", "README.md\r\n"),
	}
	return g.WriteCast(project, sessionID, &Header{
		Version:   2,
		Width:     80,
		Height:    24,
		Timestamp: recordedAt.Unix(),
		Command:   "bash",
	}, lines)
}

// GenerateAnnotatedSession writes a session narrated by annotation events,
// ending with a task-complete mark.
func (g *CastGenerator) GenerateAnnotatedSession(project, sessionID string, recordedAt time.Time) (string, error) {
	lines := []string{
		Line(0, "m", `{"analysis":"inspecting the build","commands":[{"command":"make","timeout_sec":60}]}`),
		Line(0.2, "o", "$ make\r\n"),
		Line(2.5, "o", "build ok\r\n"),
		Line(3.0, "m", `{"explanation":"build finished","is_task_complete":true}`),
		Line(3.1, "o", "$ "),
	}
	return g.WriteCast(project, sessionID, &Header{
		Version:   2,
		Width:     120,
		Height:    40,
		Timestamp: recordedAt.Unix(),
		Title:     "annotated run",
	}, lines)
}

// GenerateHeaderlessSession writes events with absolute wall-clock style
// timestamps and no header, exercising zero-point normalization.
func (g *CastGenerator) GenerateHeaderlessSession(project, sessionID string) (string, error) {
	lines := []string{
		Line(1700000100.0, "o", "first "),
		Line(1700000100.5, "o", "second "),
		Line(1700000102.0, "o", "third\r\n"),
	}
	return g.WriteCast(project, sessionID, nil, lines)
}

// GenerateMalformedSession interleaves junk with valid events, so parsers
// under test see the skip-and-continue path.
func (g *CastGenerator) GenerateMalformedSession(project, sessionID string, recordedAt time.Time) (string, error) {
	lines := []string{
		Line(0, "o", "before "),
		"this is not json {{{",
		`["nan", "o", "bad types"]`,
		Line(1.0, "o", "after\r\n"),
	}
	return g.WriteCast(project, sessionID, &Header{
		Version:   2,
		Timestamp: recordedAt.Unix(),
	}, lines)
}

// GenerateLongSession writes numEvents output events evenly spread over
// duration seconds, for timelines long enough to earn synthetic markers.
func (g *CastGenerator) GenerateLongSession(project, sessionID string, recordedAt time.Time, duration float64, numEvents int) (string, error) {
	if numEvents < 2 {
		numEvents = 2
	}
	lines := make([]string, 0, numEvents)
	step := duration / float64(numEvents-1)
	for i := 0; i < numEvents; i++ {
		lines = append(lines, Line(float64(i)*step, "o", fmt.Sprintf("line %d\r\n", i)))
	}
	return g.WriteCast(project, sessionID, &Header{
		Version:   2,
		Width:     80,
		Height:    24,
		Timestamp: recordedAt.Unix(),
	}, lines)
}

// WriteCast writes one cast file from an optional header plus raw lines
// and returns its path. Lines are written verbatim so tests can inject
// malformed records.
func (g *CastGenerator) WriteCast(project, sessionID string, header *Header, lines []string) (string, error) {
	dir := filepath.Join(g.baseDir, project)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}

	var b strings.Builder
	if header != nil {
		data, err := json.Marshal(header)
		if err != nil {
			return "", err
		}
		b.Write(data)
		b.WriteByte('\n')
	}
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}

	path := filepath.Join(dir, sessionID+".cast")
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// GetBaseDir returns the directory fixtures are written under.
func (g *CastGenerator) GetBaseDir() string {
	return g.baseDir
}
