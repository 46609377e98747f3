// Package sources reads raw sale rows from their delivery formats. Readers
// only produce RawRecords; all cleaning happens downstream.
package sources

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"

	apperrors "carsales/internal/errors"
	"carsales/pkg/contracts/domain"
)

// rawColumnCount is the fixed column count of the input contract:
// identifier, date, customer, gender, income, dealer, company, model,
// engine, transmission, color, price, dealer number, body style, phone,
// dealer region.
const rawColumnCount = 16

// StageExtract names the extract stage in structural failures.
const StageExtract = "extract"

// ReadCSV reads every raw record from a column-delimited file with a header
// row. An unreadable file or a header with too few columns is a structural
// failure; short data rows are padded and left to the transform stage to
// judge.
func ReadCSV(path string, logger *slog.Logger) ([]domain.RawRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStage(StageExtract, fmt.Errorf("open %s: %w", path, err))
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, apperrors.NewStage(StageExtract, fmt.Errorf("read header of %s: %w", path, err))
	}
	if len(header) < rawColumnCount {
		return nil, apperrors.Stagef(StageExtract,
			"%s: header has %d columns, want at least %d", path, len(header), rawColumnCount)
	}

	records := make([]domain.RawRecord, 0, 1024)
	line := 1
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewStage(StageExtract, fmt.Errorf("read %s line %d: %w", path, line+1, err))
		}
		line++
		records = append(records, rawFromRow(row, line))
	}

	logger.Info("extracted raw records",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return records, nil
}

// rawFromRow maps one positional row onto a RawRecord, padding short rows
// with empty cells.
func rawFromRow(row []string, line int) domain.RawRecord {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return domain.RawRecord{
		ID:           cell(0),
		Date:         cell(1),
		CustomerName: cell(2),
		Gender:       cell(3),
		AnnualIncome: cell(4),
		DealerName:   cell(5),
		Company:      cell(6),
		Model:        cell(7),
		Engine:       cell(8),
		Transmission: cell(9),
		Color:        cell(10),
		Price:        cell(11),
		DealerNo:     cell(12),
		BodyStyle:    cell(13),
		Phone:        cell(14),
		DealerRegion: cell(15),
		Line:         line,
	}
}
