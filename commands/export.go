package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
)

var (
	// Export flags
	exportFormat string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <file|session-id>",
	Short: "Render a session non-interactively",
	Long: `Renders one cast recording without opening the player.

The text format prints the sanitized full transcript: everything the
terminal showed by the end of the session, with escape sequences stripped.
The json format emits the parsed document (header, events, annotations,
timeline markers and the transcript) for downstream tooling.

Examples:
  logflix export 00aec530                       # Transcript to stdout
  logflix export run.cast --format json         # Parsed document as JSON
  logflix export run.cast -o transcript.txt     # Write to a file`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

// exportDocument is the json export shape.
type exportDocument struct {
	Path        string             `json:"path"`
	Header      *model.Header      `json:"header,omitempty"`
	Duration    float64            `json:"duration"`
	EventCount  int                `json:"event_count"`
	Skipped     int                `json:"skipped_lines"`
	Events      []model.Event      `json:"events"`
	Annotations []model.Annotation `json:"annotations,omitempty"`
	Markers     []model.Marker     `json:"markers,omitempty"`
	Transcript  string             `json:"transcript"`
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "text",
		"Export format (text, json)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "",
		"Output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := setupRuntime("")
	if err != nil {
		return err
	}

	path, err := resolveCastPath(args[0], cfg.RunsDir)
	if err != nil {
		return err
	}

	doc, err := cast.ParseFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cast file: %w", err)
	}

	var data []byte
	switch exportFormat {
	case "text":
		data = []byte(exportTranscript(doc))
	case "json":
		data, err = exportJSON(path, doc)
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}
	default:
		return fmt.Errorf("invalid export format '%s': must be 'text' or 'json'", exportFormat)
	}

	if exportOutput == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(exportOutput, data, 0644)
}

// exportTranscript renders the terminal content at the end of the timeline.
func exportTranscript(doc *cast.Document) string {
	text := player.VisibleText(doc.Events, doc.MaxTime)
	if text != "" {
		text += "\n"
	}
	return text
}

func exportJSON(path string, doc *cast.Document) ([]byte, error) {
	out := exportDocument{
		Path:        path,
		Header:      doc.Header,
		Duration:    doc.MaxTime,
		EventCount:  len(doc.Events),
		Skipped:     doc.SkippedLines,
		Events:      doc.Events,
		Annotations: doc.Annotations,
		Markers:     player.Markers(doc.Annotations, doc.MaxTime),
		Transcript:  player.VisibleText(doc.Events, doc.MaxTime),
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
