package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// Format selects the export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Export writes the summary to a timestamped file under dir and
// returns the path written.
func Export(sum *Summary, dir string, format Format) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: creating export dir: %w", err)
	}

	name := fmt.Sprintf(
		"workload-%s.%s",
		sum.GeneratedAt.Format("20060102-150405"), format,
	)
	path := filepath.Join(dir, name)

	switch format {
	case FormatCSV:
		f, err := os.Create(path)
		if err != nil {
			return "", fmt.Errorf("report: creating %s: %w", path, err)
		}
		defer f.Close()
		if err := WriteCSV(f, sum); err != nil {
			return "", err
		}
		return path, nil

	case FormatXLSX:
		if err := WriteXLSX(sum, path); err != nil {
			return "", err
		}
		return path, nil

	default:
		return "", fmt.Errorf("report: unknown format %q", format)
	}
}

// WriteCSV streams the summary as CSV.
func WriteCSV(w io.Writer, sum *Summary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("report: writing csv header: %w", err)
	}
	for _, r := range sum.Rows {
		if err := cw.Write(rowCells(r)); err != nil {
			return fmt.Errorf("report: writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the summary as a single-sheet workbook.
func WriteXLSX(sum *Summary, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "Workload"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("report: renaming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("report: creating header style: %w", err)
	}

	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("report: header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("report: writing header: %w", err)
		}
	}
	endHeader, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheet, "A1", endHeader, bold); err != nil {
		return fmt.Errorf("report: styling header: %w", err)
	}

	for rowIdx, r := range sum.Rows {
		cells := []any{
			r.Name, r.Email,
			r.Counts.NewTask, r.Counts.Active,
			r.Counts.Completed, r.Counts.Failed,
			r.Counts.Total,
			r.CompletionRate,
			r.Overdue,
		}
		for col, v := range cells {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("report: data cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("report: writing row: %w", err)
			}
		}
	}

	if err := f.SetColWidth(sheet, "A", "B", 24); err != nil {
		return fmt.Errorf("report: sizing columns: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("report: saving %s: %w", path, err)
	}
	return nil
}
