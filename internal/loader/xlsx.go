package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jengzang/roads-dashboard-go/internal/log"
	"github.com/jengzang/roads-dashboard-go/internal/models"
)

// ErrSheetNotFound is returned when the configured sheet is not in the workbook
var ErrSheetNotFound = errors.New("sheet not found")

// XLSXSource loads road segments from a workbook sheet
type XLSXSource struct {
	Path  string
	Sheet string // empty selects the first sheet
}

// NewXLSXSource creates a new workbook source
func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{Path: path, Sheet: sheet}
}

// Name returns a description of the source for logs and responses
func (s *XLSXSource) Name() string {
	return fmt.Sprintf("xlsx:%s#%s", s.Path, s.Sheet)
}

// ModTime returns the workbook modification time
func (s *XLSXSource) ModTime() (time.Time, error) {
	info, err := os.Stat(s.Path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// Load reads the whole sheet into a table
func (s *XLSXSource) Load(ctx context.Context) (*models.Table, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.Path, err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, sheet, s.Path)
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	table := &models.Table{Source: s.Name()}
	var header Header
	rowNum := 0
	for rows.Next() {
		rowNum++
		if rowNum%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", rowNum, err)
		}

		if rowNum == 1 {
			header = ParseHeader(cells)
			table.Schema = header.Schema
			if len(header.Unknown) > 0 {
				log.Debugw("ignoring unknown columns", "sheet", sheet, "columns", header.Unknown)
			}
			continue
		}

		if rec, ok := header.Decode(rowNum, cells); ok {
			table.Records = append(table.Records, rec)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to iterate sheet %q: %w", sheet, err)
	}

	table.LoadedAt = time.Now()
	return table, nil
}
