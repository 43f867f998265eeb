package summarize

import (
	"path/filepath"
	"strings"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/model"
)

// Summarize derives the inventory row for one parsed cast file. The row is
// what the list views, the export formats and the HTTP index serve; it is
// cheap to cache because it never holds event payloads.
func Summarize(path string, doc *cast.Document) model.SessionSummary {
	summary := model.SessionSummary{
		SessionID:    ExtractSessionID(path),
		Project:      ExtractProjectName(path),
		Path:         path,
		Duration:     doc.MaxTime,
		EventCount:   len(doc.Events),
		Annotations:  len(doc.Annotations),
		SkippedLines: doc.SkippedLines,
	}
	if doc.Header != nil {
		summary.Title = sessionTitle(doc.Header)
		summary.RecordedAt = doc.Header.Timestamp
	}

	for _, ev := range doc.Events {
		if ev.Kind == model.KindOutput {
			summary.OutputCount++
			summary.OutputBytes += int64(len(ev.Payload))
		}
	}

	for _, ann := range doc.Annotations {
		if ann.TaskComplete {
			summary.TaskComplete = true
			break
		}
	}

	return summary
}

func sessionTitle(header *model.Header) string {
	if header.Title != "" {
		return header.Title
	}
	return header.Command
}

// ExtractSessionID extracts the session ID from a file path
// e.g., "/path/to/00aec530-0614-436f-a53b-faaa0b32f123.cast" -> "00aec530-0614-436f-a53b-faaa0b32f123"
func ExtractSessionID(path string) string {
	filename := filepath.Base(path)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// ExtractProjectName extracts the project name from the file path.
func ExtractProjectName(filePath string) string {
	dir := filepath.Dir(filePath)
	projectName := filepath.Base(dir)

	if isUUID(projectName) {
		parentDir := filepath.Dir(dir)
		parentName := filepath.Base(parentDir)
		if parentName != "casts" && parentName != "." {
			projectName = parentName + "/" + projectName
		}
	}

	return projectName
}

// isUUID checks if the given string is a UUID.
func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}

	parts := strings.Split(s, "-")
	if len(parts) != 5 {
		return false
	}

	return len(parts[0]) == 8 && len(parts[1]) == 4 &&
		len(parts[2]) == 4 && len(parts[3]) == 4 &&
		len(parts[4]) == 12
}
