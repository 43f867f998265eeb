package cast

import (
	"bufio"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/logflix/logflix/internal/core/constants"
	"github.com/logflix/logflix/internal/core/model"
)

// Document is the parsed form of one cast recording: every event in file
// order plus the pre-decoded annotation subset.
type Document struct {
	Header      *model.Header
	Events      []model.Event
	Annotations []model.Annotation
	MaxTime     float64

	// Parse diagnostics
	TotalLines   int
	SkippedLines int
	// ZeroPoint is the absolute timestamp of the first event, the instant
	// every relative time is rebased against. Zero for empty documents.
	ZeroPoint float64
}

// Empty reports whether the document holds no playable events.
func (d *Document) Empty() bool {
	return len(d.Events) == 0
}

// headerProbe distinguishes a header record from other JSON objects.
type headerProbe struct {
	Version *int `json:"version"`
}

// Parse decodes full cast text into a Document. It is total over arbitrary
// input: malformed lines are skipped, the header is consumed for metadata
// only, and timestamps are rebased so the first event sits at 0. Occasional
// non-monotonic timestamps are clamped to the running maximum so file order
// is playback order.
func Parse(content string) *Document {
	return parse(bufio.NewScanner(strings.NewReader(content)))
}

// ParseFile reads and parses a cast file. The returned error covers I/O
// only; parse problems never fail the call.
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return parse(bufio.NewScanner(file)), nil
}

func parse(scanner *bufio.Scanner) *Document {
	scanner.Buffer(make([]byte, 0, constants.ScanBufferSize), constants.MaxScanBufferSize)

	doc := &Document{}
	var (
		zeroPoint float64
		zeroSet   bool
		lastTime  float64
	)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		doc.TotalLines++

		if strings.HasPrefix(line, "{") {
			var probe headerProbe
			if err := sonic.UnmarshalString(line, &probe); err == nil && probe.Version != nil {
				if doc.Header == nil {
					header := &model.Header{}
					if err := sonic.UnmarshalString(line, header); err == nil {
						doc.Header = header
					}
				}
				continue
			}
			doc.SkippedLines++
			continue
		}

		ts, kind, payload, ok := decodeEventLine(line)
		if !ok {
			doc.SkippedLines++
			continue
		}

		if !zeroSet {
			zeroPoint = ts
			zeroSet = true
		}
		rel := ts - zeroPoint
		if rel < lastTime {
			rel = lastTime
		}
		lastTime = rel

		doc.Events = append(doc.Events, model.Event{Time: rel, Kind: kind, Payload: payload})
		if kind == model.KindAnnotation {
			doc.Annotations = append(doc.Annotations, model.DecodeAnnotation(rel, payload))
		}
	}
	// A scan error means an oversized or unreadable tail; everything decoded
	// so far still plays back.

	doc.MaxTime = lastTime
	doc.ZeroPoint = zeroPoint
	return doc
}

// decodeEventLine decodes one `[timestamp, kind, payload]` record. Arrays
// with extra trailing elements are accepted; anything that does not match
// the triple shape is rejected.
func decodeEventLine(line string) (float64, string, string, bool) {
	var arr []interface{}
	if err := sonic.UnmarshalString(line, &arr); err != nil {
		return 0, "", "", false
	}
	if len(arr) < 3 {
		return 0, "", "", false
	}
	ts, ok := arr[0].(float64)
	if !ok {
		return 0, "", "", false
	}
	kind, ok := arr[1].(string)
	if !ok {
		return 0, "", "", false
	}
	payload, ok := arr[2].(string)
	if !ok {
		return 0, "", "", false
	}
	return ts, kind, payload, true
}
