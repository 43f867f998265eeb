package model

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/bytedance/sonic"
)

// Event is the normalized in-memory form of one cast event record.
type Event struct {
	Time    float64 `json:"time"` // seconds since the session zero point
	Kind    string  `json:"kind"`
	Payload string  `json:"payload"`
}

// Header is the cast file header record. Terminal geometry is metadata only;
// playback never consults it.
type Header struct {
	Version   int    `json:"version"`
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
	Command   string `json:"command,omitempty"`
	Title     string `json:"title,omitempty"`
}

// PlannedCommand is one entry of an annotation's command plan.
type PlannedCommand struct {
	Command    string  `json:"command"`
	TimeoutSec float64 `json:"timeout_sec,omitempty"`
}

// ExtraField preserves an unrecognized annotation field in document order.
type ExtraField struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Annotation is the decoded side-channel record carried by an "m" event.
// When the payload cannot be decoded as an object, Raw is the only populated
// field besides Time.
type Annotation struct {
	Time         float64          `json:"time"`
	Analysis     string           `json:"analysis,omitempty"`
	Explanation  string           `json:"explanation,omitempty"`
	Commands     []PlannedCommand `json:"commands,omitempty"`
	TaskComplete bool             `json:"is_task_complete,omitempty"`
	Extra        []ExtraField     `json:"extra,omitempty"`
	Raw          string           `json:"raw,omitempty"`
}

// IsRawOnly reports whether the payload resisted structured decoding.
func (a Annotation) IsRawOnly() bool {
	return a.Raw != "" && a.Analysis == "" && a.Explanation == "" &&
		len(a.Commands) == 0 && len(a.Extra) == 0 && !a.TaskComplete
}

// annotationBody mirrors the recognized payload fields for decoding.
type annotationBody struct {
	Analysis     string           `json:"analysis"`
	Explanation  string           `json:"explanation"`
	Commands     []PlannedCommand `json:"commands"`
	TaskComplete bool             `json:"is_task_complete"`
}

var annotationKnownFields = map[string]struct{}{
	"analysis":         {},
	"explanation":      {},
	"commands":         {},
	"is_task_complete": {},
}

// DecodeAnnotation builds an Annotation from a raw "m" payload. Decoding is
// best-effort: anything that does not decode as a JSON object falls back to
// the raw string so playback of the surrounding output is never blocked.
func DecodeAnnotation(ts float64, payload string) Annotation {
	ann := Annotation{Time: ts}
	trimmed := strings.TrimSpace(payload)
	if !strings.HasPrefix(trimmed, "{") {
		ann.Raw = payload
		return ann
	}

	var body annotationBody
	if err := sonic.UnmarshalString(trimmed, &body); err != nil {
		ann.Raw = payload
		return ann
	}

	ann.Analysis = body.Analysis
	ann.Explanation = body.Explanation
	ann.Commands = body.Commands
	ann.TaskComplete = body.TaskComplete
	ann.Extra = decodeExtraFields(trimmed)
	return ann
}

// decodeExtraFields walks the top-level object and collects unrecognized
// fields in document order. sonic decodes objects into maps, which lose
// ordering, so this pass uses the stream decoder instead.
func decodeExtraFields(payload string) []ExtraField {
	dec := json.NewDecoder(strings.NewReader(payload))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	var extras []ExtraField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return extras
		}
		key, ok := keyTok.(string)
		if !ok {
			return extras
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return extras
		}
		if _, known := annotationKnownFields[key]; known {
			continue
		}
		extras = append(extras, ExtraField{Key: key, Value: renderExtraValue(value)})
	}
	return extras
}

// renderExtraValue flattens an unknown field value for display: JSON strings
// lose their quotes, everything else is kept as compact JSON.
func renderExtraValue(raw json.RawMessage) string {
	var s string
	if err := sonic.Unmarshal(raw, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}
