package formatter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

type CSVFormatter struct{}

func NewCSVFormatter() *CSVFormatter {
	return &CSVFormatter{}
}

func (f *CSVFormatter) Format(rows []SessionRow) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	headers := []string{
		"Session", "Project", "Title", "Recorded", "Duration (s)",
		"Events", "Outputs", "Output Bytes", "Markers", "Skipped", "Complete",
	}
	if err := w.Write(headers); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.SessionID,
			row.Project,
			row.Title,
			row.Recorded,
			fmt.Sprintf("%.2f", row.Duration),
			strconv.Itoa(row.Events),
			strconv.Itoa(row.Outputs),
			strconv.FormatInt(row.OutputBytes, 10),
			strconv.Itoa(row.Annotations),
			strconv.Itoa(row.SkippedLines),
			strconv.FormatBool(row.TaskComplete),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	return nil
}
