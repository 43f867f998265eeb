package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/logflix/logflix/internal/util"
)

// SummaryFormatter is responsible for formatting and outputting summary reports.
type SummaryFormatter struct {
	groupBy string
}

// groupStat accumulates per-group totals for the breakdown section.
type groupStat struct {
	Sessions    int
	Duration    float64
	Events      int
	OutputBytes int64
	Annotations int
	Completed   int
}

// NewSummaryFormatter creates a new instance of SummaryFormatter.
func NewSummaryFormatter() *SummaryFormatter {
	return &SummaryFormatter{}
}

// WithGroupBy selects the breakdown dimension: "day" groups by recording
// date, anything else groups by project.
func (f *SummaryFormatter) WithGroupBy(groupBy string) *SummaryFormatter {
	f.groupBy = groupBy
	return f
}

func (f *SummaryFormatter) groupKey(row SessionRow) string {
	switch f.groupBy {
	case "day":
		return row.Day
	default:
		return row.Project
	}
}

func (f *SummaryFormatter) groupHeading() string {
	if f.groupBy == "day" {
		return "Days:"
	}
	return "Projects:"
}

// Format formats and outputs the summary information of the session inventory.
func (f *SummaryFormatter) Format(rows []SessionRow) error {
	var totalDuration float64
	var totalEvents, totalAnnotations, totalCompleted int
	var totalBytes int64
	groupStats := make(map[string]*groupStat)

	for _, row := range rows {
		totalDuration += row.Duration
		totalEvents += row.Events
		totalBytes += row.OutputBytes
		totalAnnotations += row.Annotations
		if row.TaskComplete {
			totalCompleted++
		}

		key := f.groupKey(row)
		stat, ok := groupStats[key]
		if !ok {
			stat = &groupStat{}
			groupStats[key] = stat
		}
		stat.Sessions++
		stat.Duration += row.Duration
		stat.Events += row.Events
		stat.OutputBytes += row.OutputBytes
		stat.Annotations += row.Annotations
		if row.TaskComplete {
			stat.Completed++
		}
	}

	fmt.Println(strings.Repeat("=", 60))
	fmt.Println("Terminal Session Summary")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println()

	// Check if there's any data
	if len(rows) == 0 {
		fmt.Println("No sessions to summarize")
		fmt.Println()
		fmt.Println(strings.Repeat("=", 60))
		return nil
	}

	// Recorded range section, relying on rows arriving in display order
	first := rows[0].Recorded
	last := rows[len(rows)-1].Recorded
	if first != "" || last != "" {
		if first == last {
			fmt.Printf("Recorded: %s\n", first)
		} else {
			fmt.Printf("Recorded: %s to %s\n", first, last)
		}
		fmt.Println()
	}

	fmt.Println("Totals:")
	fmt.Printf("  Sessions:    %d\n", len(rows))
	fmt.Printf("  Play Time:   %s\n", util.FormatClock(totalDuration))
	fmt.Printf("  Events:      %s\n", formatNumber(totalEvents))
	fmt.Printf("  Output:      %s\n", util.FormatBytes(totalBytes))
	fmt.Printf("  Annotations: %s\n", formatNumber(totalAnnotations))
	fmt.Printf("  Completed:   %d of %d\n", totalCompleted, len(rows))
	fmt.Println()

	if len(groupStats) > 0 {
		fmt.Println(f.groupHeading())
		fmt.Println(strings.Repeat("-", 60))

		var keys []string
		for key := range groupStats {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		for _, key := range keys {
			stat := groupStats[key]
			name := key
			if name == "" {
				name = "(unknown)"
			}
			fmt.Printf("\n%s:\n", name)
			fmt.Printf("  Sessions:    %d\n", stat.Sessions)
			fmt.Printf("  Play Time:   %s\n", util.FormatClock(stat.Duration))
			fmt.Printf("  Events:      %s\n", formatNumber(stat.Events))
			fmt.Printf("  Output:      %s\n", util.FormatBytes(stat.OutputBytes))
			fmt.Printf("  Annotations: %s\n", formatNumber(stat.Annotations))
			fmt.Printf("  Completed:   %d\n", stat.Completed)
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 60))

	return nil
}
