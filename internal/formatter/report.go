package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/desertthunder/ytgrab/internal/models"
	"github.com/desertthunder/ytgrab/internal/shared"
	"github.com/desertthunder/ytgrab/internal/tasks"
)

// Report formats accepted by [WriteRunReport].
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// ReportRow is one dispatched task in a run report.
type ReportRow struct {
	Track    string `json:"track"`
	Artist   string `json:"artist"`
	Album    string `json:"album"`
	State    string `json:"state"`
	Path     string `json:"path,omitempty"`
	URL      string `json:"url,omitempty"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// RunReport is the serializable summary of a [tasks.RunResult].
type RunReport struct {
	RunID     string      `json:"run_id"`
	Total     int         `json:"total"`
	Ignored   int         `json:"ignored"`
	Declined  int         `json:"declined"`
	Completed int         `json:"completed"`
	Skipped   int         `json:"skipped"`
	Failed    int         `json:"failed"`
	Tasks     []ReportRow `json:"tasks"`
}

// NewRunReport flattens result into a [RunReport].
func NewRunReport(result *tasks.RunResult) *RunReport {
	report := &RunReport{
		RunID:     result.RunID,
		Total:     result.Total,
		Ignored:   result.Ignored,
		Declined:  result.Declined,
		Completed: result.Completed,
		Skipped:   result.Skipped,
		Failed:    result.Failed,
		Tasks:     make([]ReportRow, 0, len(result.Results)),
	}

	for _, res := range result.Results {
		row := ReportRow{
			Track:    res.Record.Track,
			Artist:   res.Record.Artist,
			Album:    res.Record.Album,
			State:    res.State.String(),
			Path:     res.Path,
			Error:    res.Error(),
			Duration: res.Duration().Round(time.Millisecond).String(),
		}
		if res.MediaID != "" {
			row.URL = models.ResolvedMedia{ID: res.MediaID}.URL()
		}
		report.Tasks = append(report.Tasks, row)
	}
	return report
}

// ReportToCSV renders one row per task with a header row.
func ReportToCSV(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Track", "Artist", "Album", "State", "Path", "URL", "Error", "Duration"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, row := range report.Tasks {
		record := []string{row.Track, row.Artist, row.Album, row.State, row.Path, row.URL, row.Error, row.Duration}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportToMarkdown renders the totals and a numbered task list.
func ReportToMarkdown(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Run %s\n\n", report.RunID))
	buf.WriteString(fmt.Sprintf("**Records**: %d\n", report.Total))
	buf.WriteString(fmt.Sprintf("**Completed**: %d\n", report.Completed))
	buf.WriteString(fmt.Sprintf("**Skipped**: %d\n", report.Skipped))
	buf.WriteString(fmt.Sprintf("**Failed**: %d\n", report.Failed))
	if report.Ignored > 0 || report.Declined > 0 {
		buf.WriteString(fmt.Sprintf("**Ignored**: %d, **Declined**: %d\n", report.Ignored, report.Declined))
	}

	buf.WriteString("\n## Tasks\n\n")
	for i, row := range report.Tasks {
		albumPart := ""
		if row.Album != "" {
			albumPart = fmt.Sprintf(" (%s)", row.Album)
		}
		buf.WriteString(fmt.Sprintf("%d. %s - %s%s [%s]\n", i+1, row.Artist, row.Track, albumPart, row.State))
		if row.Error != "" {
			buf.WriteString(fmt.Sprintf("   - error: `%s`\n", row.Error))
		}
	}
	return buf.Bytes(), nil
}

// ReportToText renders a plain listing.
func ReportToText(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Run: %s\n", report.RunID))
	buf.WriteString(fmt.Sprintf("Completed: %d, Skipped: %d, Failed: %d\n\n", report.Completed, report.Skipped, report.Failed))

	for i, row := range report.Tasks {
		line := fmt.Sprintf("%d. [%s] %s - %s", i+1, row.State, row.Artist, row.Track)
		if row.Error != "" {
			line += ": " + row.Error
		}
		buf.WriteString(line + "\n")
	}
	return buf.Bytes(), nil
}

// ReportFormat resolves the report format. An empty format is inferred from the path's
// extension and defaults to json.
func ReportFormat(format, path string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatMarkdown, "md":
		return FormatMarkdown, nil
	case FormatText, "text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: unknown report format %q (want json, csv, markdown or txt)", shared.ErrInvalidFlag, format)
	}
}

// WriteRunReport writes result to path in the given format and returns the resolved format.
func WriteRunReport(result *tasks.RunResult, format, path string) (string, error) {
	format, err := ReportFormat(format, path)
	if err != nil {
		return "", err
	}

	report := NewRunReport(result)

	var data []byte
	switch format {
	case FormatCSV:
		data, err = ReportToCSV(report)
	case FormatMarkdown:
		data, err = ReportToMarkdown(report)
	case FormatText:
		data, err = ReportToText(report)
	default:
		data, err = shared.MarshalJSON(report, true)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate %s report: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	return format, nil
}
