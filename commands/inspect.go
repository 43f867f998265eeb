package commands

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/logflix/logflix/internal/core/cast"
	"github.com/logflix/logflix/internal/core/model"
	"github.com/logflix/logflix/internal/core/player"
	"github.com/logflix/logflix/internal/util"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file|session-id>",
	Short: "Print parse diagnostics for a cast file",
	Long: `Parses one cast recording and prints what the player would see:
line and event counts, skipped lines, the zero point, the timeline
duration and the marker table. Useful for debugging malformed captures.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
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

	fmt.Println(util.FormatSectionSeparator())
	fmt.Println(util.FormatHeaderTitle("=== LogFlix Cast Inspection ==="))
	fmt.Printf("File: %s\n", path)
	fmt.Printf("Inspected: %s\n", util.GetTimeProvider().Now().Format("2006-01-02 15:04:05 MST"))
	fmt.Println(util.FormatSectionSeparator())

	printHeaderInfo(doc.Header)
	fmt.Println(util.FormatSectionSeparator())

	printParseDiagnostics(doc)
	fmt.Println(util.FormatSectionSeparator())

	printMarkerTable(doc)
	fmt.Println(util.FormatSectionSeparator())

	return nil
}

func printHeaderInfo(header *model.Header) {
	fmt.Println(util.FormatOverviewTitle("=== Header ==="))
	if header == nil {
		fmt.Println("No header record found")
		return
	}

	fmt.Printf("Version: %d\n", header.Version)
	if header.Width > 0 || header.Height > 0 {
		fmt.Printf("Geometry: %dx%d\n", header.Width, header.Height)
	}
	if header.Timestamp > 0 {
		recorded := time.Unix(header.Timestamp, 0)
		fmt.Printf("Recorded: %s\n", recorded.Format("2006-01-02 15:04:05 MST"))
	}
	if header.Title != "" {
		fmt.Printf("Title: %s\n", header.Title)
	}
	if header.Command != "" {
		fmt.Printf("Command: %s\n", header.Command)
	}
}

func printParseDiagnostics(doc *cast.Document) {
	fmt.Println(util.FormatDiagnosticTitle("=== Parse Diagnostics ==="))
	fmt.Printf("Total Lines: %s\n", util.FormatNumber(doc.TotalLines))
	fmt.Printf("Events: %s\n", util.FormatNumber(len(doc.Events)))
	if doc.SkippedLines > 0 {
		fmt.Printf("Skipped Lines: %s ⚠️\n", util.FormatNumber(doc.SkippedLines))
	} else {
		fmt.Println("Skipped Lines: 0")
	}

	if doc.Empty() {
		fmt.Println("Timeline: empty (nothing to play)")
		return
	}

	fmt.Printf("Zero Point: %.3f (absolute timestamp of the first event)\n", doc.ZeroPoint)
	fmt.Printf("Duration: %s (%.3fs)\n", util.FormatClock(doc.MaxTime), doc.MaxTime)

	// Events by kind, known kinds first
	counts := make(map[string]int)
	var outputBytes int64
	for _, ev := range doc.Events {
		counts[ev.Kind]++
		if ev.Kind == model.KindOutput {
			outputBytes += int64(len(ev.Payload))
		}
	}

	fmt.Println("\nEvents by kind:")
	for _, kind := range orderedKinds(counts) {
		label := kindLabel(kind)
		fmt.Printf("  %-12s %s\n", label, util.FormatNumber(counts[kind]))
	}
	fmt.Printf("Output Bytes: %s\n", util.FormatBytes(outputBytes))

	for _, ann := range doc.Annotations {
		if ann.TaskComplete {
			fmt.Println("Task Complete: yes")
			return
		}
	}
	fmt.Println("Task Complete: no")
}

// orderedKinds lists the well-known kinds first, then anything else sorted.
func orderedKinds(counts map[string]int) []string {
	known := []string{model.KindOutput, model.KindInput, model.KindAnnotation}
	var kinds []string
	seen := make(map[string]bool)
	for _, k := range known {
		if counts[k] > 0 {
			kinds = append(kinds, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range counts {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(kinds, rest...)
}

func kindLabel(kind string) string {
	switch kind {
	case model.KindOutput:
		return "output (o)"
	case model.KindInput:
		return "input (i)"
	case model.KindAnnotation:
		return "marker (m)"
	default:
		return fmt.Sprintf("other (%s)", kind)
	}
}

func printMarkerTable(doc *cast.Document) {
	fmt.Println(util.FormatDataTitle("=== Timeline Markers ==="))

	markers := player.Markers(doc.Annotations, doc.MaxTime)
	if len(markers) == 0 {
		fmt.Println("No markers (empty timeline)")
		return
	}

	if len(doc.Annotations) > 0 {
		fmt.Printf("%d annotation markers\n\n", len(markers))
	} else {
		fmt.Printf("%d synthetic navigation markers (no annotations)\n\n", len(markers))
	}

	for i, m := range markers {
		label := m.Label
		if label == "" {
			label = "-"
		}
		if len(label) > 60 {
			label = label[:57] + "..."
		}
		fmt.Printf("  %2d  %s  %-10s  %s\n", i+1, util.FormatClock(m.Time), m.Source, label)
	}
}
