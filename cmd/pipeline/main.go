// Command pipeline runs the car sales ETL batch end to end: extract raw
// rows, normalize, derive, aggregate and export, with an optional
// PostgreSQL load.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"carsales/internal/config"
	apperrors "carsales/internal/errors"
	"carsales/internal/infrastructure"
	"carsales/internal/services"
	"carsales/internal/storage"
)

func main() {
	if err := run(); err != nil {
		if stage, ok := apperrors.StageOf(err); ok {
			fmt.Fprintf(os.Stderr, "pipeline failed in stage %s: %v\n", stage, err)
		} else {
			fmt.Fprintf(os.Stderr, "pipeline failed: %v\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flag.String("config", "config.yaml", "path to the YAML config file")
	inPath := flag.String("in", "", "input file (overrides configured input path)")
	format := flag.String("format", "", "input format, csv or xlsx (overrides config)")
	outDir := flag.String("out", "", "output directory for exported CSVs (overrides config)")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := loadConfig(*cfgPath, *inPath, *format, *outDir)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	metrics, err := infrastructure.InitializeMetrics(logger)
	if err != nil {
		return fmt.Errorf("initialize metrics: %w", err)
	}
	ctx := context.Background()
	defer metrics.Shutdown(ctx)

	var pg *storage.PostgresWriter
	if cfg.Database.DSN != "" {
		pg, err = storage.NewPostgresWriter(cfg.Database.DSN, logger)
		if err != nil {
			return err
		}
		defer pg.Close()
	}

	svc := services.NewPipelineService(cfg, logger, metrics, pg)
	if err := svc.Refresh(ctx); err != nil {
		return err
	}

	logger.Info("pipeline finished",
		slog.Int("clean_records", len(svc.Clean())),
		slog.String("output_dir", cfg.Output.Dir))
	return nil
}

func loadConfig(cfgPath, inPath, format, outDir string) (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if inPath != "" {
		cfg.Input.Path = inPath
	}
	if format != "" {
		cfg.Input.Format = format
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
