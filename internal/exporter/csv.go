// Package exporter writes the datasets and reports to timestamped CSV
// files, one file per run per view, so downstream consumers always see a
// complete snapshot.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// CSVWriter provides CSV export into a single output directory.
type CSVWriter struct {
	outDir string
	logger *slog.Logger
	now    func() time.Time
}

// NewCSVWriter creates a CSV writer rooted at outDir.
func NewCSVWriter(outDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{outDir: outDir, logger: logger, now: time.Now}
}

// WriteView writes one named view to <outDir>/<name>_<timestamp>.csv with a
// UTF-8 BOM for Excel compatibility, returning the path written.
func (w *CSVWriter) WriteView(name string, headers []string, records [][]string) (string, error) {
	if err := os.MkdirAll(w.outDir, 0755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.csv", name, w.now().Format("20060102_150405"))
	path := filepath.Join(w.outDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	// BOM helps Excel recognize UTF-8.
	if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return "", fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(headers); err != nil {
		return "", fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := cw.Write(record); err != nil {
			return "", fmt.Errorf("write record %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", err
	}

	w.logger.Info("exported view",
		slog.String("view", name),
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return path, nil
}
