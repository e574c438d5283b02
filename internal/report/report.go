// internal/report/report.go
// Package report exports run summaries to disk in the configured formats.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/townhub/communityscraper/internal/config"
	"github.com/townhub/communityscraper/internal/utils"
	"github.com/townhub/communityscraper/pkg/types"
)

// Writer exports RunResult summaries. One file per run per format, named by
// the run's start time.
type Writer struct {
	cfg config.ReportConfig
	log utils.Logger
}

// NewWriter creates a report writer. The target directory is created on
// first write.
func NewWriter(cfg config.ReportConfig) *Writer {
	return &Writer{cfg: cfg, log: utils.NewComponentLogger("report")}
}

// Write exports the result in every configured format. Failures in one
// format do not block the others; the first error is returned.
func (w *Writer) Write(result *types.RunResult) error {
	if !w.cfg.Enabled {
		return nil
	}
	if err := os.MkdirAll(w.cfg.Directory, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	stamp := result.StartedAt.Format("20060102-150405")
	var firstErr error
	for _, format := range w.cfg.Formats {
		path := filepath.Join(w.cfg.Directory, fmt.Sprintf("run-%s.%s", stamp, format))
		var err error
		switch format {
		case "json":
			err = w.writeJSON(path, result)
		case "csv":
			err = w.writeCSV(path, result)
		case "xlsx":
			err = w.writeExcel(path, result)
		default:
			err = fmt.Errorf("unknown report format %q", format)
		}
		if err != nil {
			w.log.Errorf("write %s report: %v", format, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		w.log.Infof("wrote %s", path)
	}
	return firstErr
}

func (w *Writer) writeJSON(path string, result *types.RunResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (w *Writer) writeCSV(path string, result *types.RunResult) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	rows := [][]string{
		{"started_at", "duration", "total", "new", "updated", "deleted", "errors"},
		{
			result.StartedAt.Format(time.RFC3339),
			result.Duration.String(),
			strconv.Itoa(result.Total),
			strconv.Itoa(result.New),
			strconv.Itoa(result.Updated),
			strconv.Itoa(result.Deleted),
			strconv.Itoa(len(result.Errors)),
		},
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}

	// Error detail follows the summary block so one file tells the whole
	// story of the run.
	if len(result.Errors) > 0 {
		if err := cw.Write([]string{"source", "item", "message"}); err != nil {
			return err
		}
		for _, e := range result.Errors {
			if err := cw.Write([]string{e.Source, e.Item, e.Message}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func (w *Writer) writeExcel(path string, result *types.RunResult) error {
	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Run Summary"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return err
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	headers := []string{"Started At", "Duration", "Total", "New", "Updated", "Deleted", "Errors"}
	values := []interface{}{
		result.StartedAt.Format(time.RFC3339),
		result.Duration.String(),
		result.Total,
		result.New,
		result.Updated,
		result.Deleted,
		len(result.Errors),
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		_ = file.SetCellStyle(sheet, cell, cell, headerStyle)
		cell, _ = excelize.CoordinatesToCellName(i+1, 2)
		if err := file.SetCellValue(sheet, cell, values[i]); err != nil {
			return err
		}
	}

	if len(result.Errors) > 0 {
		const errSheet = "Errors"
		if _, err := file.NewSheet(errSheet); err != nil {
			return err
		}
		for i, h := range []string{"Source", "Item", "Message"} {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = file.SetCellValue(errSheet, cell, h)
			_ = file.SetCellStyle(errSheet, cell, cell, headerStyle)
		}
		for row, e := range result.Errors {
			for col, v := range []string{e.Source, e.Item, e.Message} {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				_ = file.SetCellValue(errSheet, cell, v)
			}
		}
	}

	return file.SaveAs(path)
}
