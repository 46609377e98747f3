// Package storage persists the clean and derived datasets to PostgreSQL as
// an optional delivery adapter. Each load replaces the previous snapshot;
// the pipeline is the only writer.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"carsales/pkg/contracts/domain"
)

// PostgresWriter persists pipeline output snapshots to PostgreSQL.
type PostgresWriter struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresWriter opens a connection, verifies it with a few ping
// retries, runs schema migrations and returns a ready writer.
func NewPostgresWriter(dsn string, logger *slog.Logger) (*PostgresWriter, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	w := &PostgresWriter{db: db, logger: logger}
	if err := w.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}
	return w, nil
}

func (w *PostgresWriter) migrate() error {
	_, err := w.db.Exec(`
		CREATE TABLE IF NOT EXISTS sales_clean (
			car_id        TEXT PRIMARY KEY,
			sale_date     DATE,
			customer_name TEXT,
			gender        TEXT,
			annual_income NUMERIC(14,2),
			dealer_name   TEXT,
			company       TEXT,
			model         TEXT,
			engine        TEXT,
			transmission  TEXT,
			color         TEXT,
			price         NUMERIC(14,2),
			dealer_no     TEXT,
			body_style    TEXT,
			phone         TEXT,
			dealer_region TEXT,
			loaded_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS sales_derived (
			car_id         TEXT PRIMARY KEY,
			sale_date      DATE,
			customer_name  TEXT,
			gender         TEXT,
			annual_income  NUMERIC(14,2) NOT NULL DEFAULT 0,
			dealer_name    TEXT,
			company        TEXT,
			model          TEXT,
			engine         TEXT,
			transmission   TEXT,
			color          TEXT,
			price          NUMERIC(14,2) NOT NULL DEFAULT 0,
			dealer_no      TEXT,
			body_style     TEXT,
			phone          TEXT,
			dealer_region  TEXT,
			sale_year      INT,
			sale_month     INT,
			month_label    TEXT,
			price_segment  TEXT NOT NULL,
			price_category TEXT NOT NULL,
			loaded_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_sales_derived_region  ON sales_derived(dealer_region);
		CREATE INDEX IF NOT EXISTS idx_sales_derived_company ON sales_derived(company);
		CREATE INDEX IF NOT EXISTS idx_sales_derived_segment ON sales_derived(price_segment);
	`)
	return err
}

// WriteClean replaces the sales_clean snapshot.
func (w *PostgresWriter) WriteClean(ctx context.Context, clean []domain.CleanRecord) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sales_clean"); err != nil {
		return fmt.Errorf("postgres: clear sales_clean: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_clean (
			car_id, sale_date, customer_name, gender, annual_income,
			dealer_name, company, model, engine, transmission, color,
			price, dealer_no, body_style, phone, dealer_region
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`)
	if err != nil {
		return fmt.Errorf("postgres: prepare: %w", err)
	}
	defer stmt.Close()

	for i := range clean {
		c := &clean[i]
		if _, err := stmt.ExecContext(ctx,
			c.ID, nullTime(c.Date), nullStr(c.CustomerName), nullStr(c.Gender),
			nullFloat(c.AnnualIncome), nullStr(c.DealerName), nullStr(c.Company),
			nullStr(c.Model), nullStr(c.Engine), nullStr(c.Transmission),
			nullStr(c.Color), nullFloat(c.Price), nullStr(c.DealerNo),
			nullStr(c.BodyStyle), nullStr(c.Phone), nullStr(c.DealerRegion),
		); err != nil {
			return fmt.Errorf("postgres: insert clean %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	w.logger.Info("loaded clean dataset", slog.Int("rows", len(clean)))
	return nil
}

// WriteDerived replaces the sales_derived snapshot.
func (w *PostgresWriter) WriteDerived(ctx context.Context, derived []domain.DerivedRecord) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sales_derived"); err != nil {
		return fmt.Errorf("postgres: clear sales_derived: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales_derived (
			car_id, sale_date, customer_name, gender, annual_income,
			dealer_name, company, model, engine, transmission, color,
			price, dealer_no, body_style, phone, dealer_region,
			sale_year, sale_month, month_label, price_segment, price_category
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`)
	if err != nil {
		return fmt.Errorf("postgres: prepare: %w", err)
	}
	defer stmt.Close()

	for i := range derived {
		d := &derived[i]
		var year, month interface{}
		if d.HasDate() {
			year, month = d.Year, d.Month
		}
		if _, err := stmt.ExecContext(ctx,
			d.ID, nullTime(d.Date), nullStr(d.CustomerName), nullStr(d.Gender),
			d.AnnualIncome, nullStr(d.DealerName), nullStr(d.Company),
			nullStr(d.Model), nullStr(d.Engine), nullStr(d.Transmission),
			nullStr(d.Color), d.Price, nullStr(d.DealerNo), nullStr(d.BodyStyle),
			nullStr(d.Phone), nullStr(d.DealerRegion),
			year, month, nullStr(d.MonthLabel),
			string(d.PriceSegment), string(d.PriceCategory),
		); err != nil {
			return fmt.Errorf("postgres: insert derived %s: %w", d.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	w.logger.Info("loaded derived dataset", slog.Int("rows", len(derived)))
	return nil
}

// Close releases the database connection.
func (w *PostgresWriter) Close() error {
	return w.db.Close()
}

func nullStr(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
