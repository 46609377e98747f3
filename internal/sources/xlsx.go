package sources

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "carsales/internal/errors"
	"carsales/pkg/contracts/domain"
)

// ReadXLSX reads raw records from an Excel workbook. The sheet holding the
// sales data is discovered by header content, since exports rename sheets
// freely.
func ReadXLSX(path string, logger *slog.Logger) ([]domain.RawRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStage(StageExtract, fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	rows, sheet, err := findSalesSheet(f)
	if err != nil {
		return nil, apperrors.NewStage(StageExtract, fmt.Errorf("%s: %w", path, err))
	}
	logger.Info("found sales data sheet",
		slog.String("path", path),
		slog.String("sheet", sheet))

	if len(rows[0]) < rawColumnCount {
		return nil, apperrors.Stagef(StageExtract,
			"%s: sheet %s header has %d columns, want at least %d",
			path, sheet, len(rows[0]), rawColumnCount)
	}

	records := make([]domain.RawRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if emptyRow(row) {
			continue
		}
		records = append(records, rawFromRow(row, i+2))
	}

	logger.Info("extracted raw records",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

// findSalesSheet returns the rows of the first sheet whose header row looks
// like sales data.
func findSalesSheet(f *excelize.File) ([][]string, string, error) {
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil || len(rows) < 1 {
			continue
		}
		header := strings.ToLower(strings.Join(rows[0], " "))
		if strings.Contains(header, "date") && strings.Contains(header, "price") {
			return rows, name, nil
		}
	}
	return nil, "", fmt.Errorf("no sheet with a sales header found")
}

func emptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
