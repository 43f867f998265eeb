package formatter

import (
	"fmt"
	"strings"

	"github.com/logflix/logflix/internal/util"
)

type TableFormatter struct {
	headers []string
}

func NewTableFormatter() *TableFormatter {
	return &TableFormatter{
		headers: []string{
			"Session", "Project", "Recorded", "Duration",
			"Events", "Output", "Markers", "Status",
		},
	}
}

func (f *TableFormatter) Format(rows []SessionRow) error {
	// Calculate optimal column widths based on content
	widths := f.calculateColumnWidths(rows)

	// Print top border
	f.printBorder(widths, "top")

	// Print header
	f.printRow(f.headers, widths)

	// Print header separator
	f.printBorder(widths, "middle")

	for _, row := range rows {
		f.printRow(f.rowValues(row), widths)
	}

	// Print total row
	f.printBorder(widths, "middle")
	f.printRow(f.totalValues(rows), widths)

	// Print bottom border
	f.printBorder(widths, "bottom")

	return nil
}

func (f *TableFormatter) rowValues(row SessionRow) []string {
	return []string{
		row.SessionID,
		row.Project,
		row.Recorded,
		util.FormatClock(row.Duration),
		formatNumber(row.Events),
		util.FormatBytes(row.OutputBytes),
		formatNumber(row.Annotations),
		statusLabel(row.TaskComplete),
	}
}

func (f *TableFormatter) totalValues(rows []SessionRow) []string {
	var duration float64
	var events, markers, done int
	var outputBytes int64

	for _, row := range rows {
		duration += row.Duration
		events += row.Events
		outputBytes += row.OutputBytes
		markers += row.Annotations
		if row.TaskComplete {
			done++
		}
	}

	return []string{
		"Total",
		fmt.Sprintf("%d sessions", len(rows)),
		"",
		util.FormatClock(duration),
		formatNumber(events),
		util.FormatBytes(outputBytes),
		formatNumber(markers),
		fmt.Sprintf("%d done", done),
	}
}

// calculateColumnWidths determines optimal width for each column based on content
func (f *TableFormatter) calculateColumnWidths(rows []SessionRow) []int {
	widths := make([]int, len(f.headers))

	// Initialize with header widths
	for i, header := range f.headers {
		widths[i] = len(header)
	}

	for _, row := range rows {
		for i, value := range f.rowValues(row) {
			if len(value) > widths[i] {
				widths[i] = len(value)
			}
		}
	}

	for i, value := range f.totalValues(rows) {
		if len(value) > widths[i] {
			widths[i] = len(value)
		}
	}

	// Apply minimum widths for readability
	for i := range widths {
		if widths[i] < 7 {
			widths[i] = 7
		}
	}

	return widths
}

// printBorder prints table borders (top, middle, bottom)
func (f *TableFormatter) printBorder(widths []int, borderType string) {
	var left, middle, right, separator string

	switch borderType {
	case "top":
		left, middle, right, separator = "┌", "┬", "┐", "─"
	case "middle":
		left, middle, right, separator = "├", "┼", "┤", "─"
	case "bottom":
		left, middle, right, separator = "└", "┴", "┘", "─"
	}

	fmt.Print(left)
	for i, width := range widths {
		fmt.Print(strings.Repeat(separator, width+2)) // +2 for padding spaces
		if i < len(widths)-1 {
			fmt.Print(middle)
		}
	}
	fmt.Println(right)
}

// printRow prints a data row with proper alignment
func (f *TableFormatter) printRow(values []string, widths []int) {
	fmt.Print("│")
	for i, value := range values {
		if i <= 2 {
			// Session, Project and Recorded columns are left-aligned
			fmt.Printf(" %-*s │", widths[i], value)
		} else {
			// Numeric columns are right-aligned
			fmt.Printf(" %*s │", widths[i], value)
		}
	}
	fmt.Println()
}

func formatNumber(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var result []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, digit)
	}

	return string(result)
}
