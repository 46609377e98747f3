// Package dataprocessing implements the core pipeline stages: transforming
// raw sale rows into the clean dataset, deriving the analytics view and
// computing the summary reports.
package dataprocessing

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"carsales/internal/normalize"
	"carsales/pkg/contracts/domain"
)

// TransformStats carries the observability counters produced while building
// the clean set. Admitted is the size of the final clean set after the
// upsert-by-key pass; Replaced counts admitted rows overwritten by a later
// duplicate. The anomaly counters are row events: they include rows that a
// duplicate later replaced.
type TransformStats struct {
	RowsRead         int
	Admitted         int
	Rejected         int
	Replaced         int
	UnparsablePrice  int
	UnparsableIncome int
}

// Transformer applies the field normalizers to every admissible raw record
// and enforces identifier uniqueness.
type Transformer struct {
	logger  *slog.Logger
	workers int
}

// NewTransformer creates a Transformer. workers bounds the normalization
// pool; values below 1 fall back to GOMAXPROCS.
func NewTransformer(logger *slog.Logger, workers int) *Transformer {
	if logger == nil {
		logger = slog.Default()
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Transformer{logger: logger, workers: workers}
}

// candidate is one normalized row before the admission and upsert pass.
type candidate struct {
	record           domain.CleanRecord
	admitted         bool
	unparsablePrice  bool
	unparsableIncome bool
}

// Transform normalizes every raw record and returns the clean set plus the
// quality counters. Records with a blank identifier are dropped (counted,
// not errored). Duplicate identifiers resolve last-write-wins while keeping
// the first-encounter position, so output order is deterministic.
//
// Normalization runs on a bounded worker pool; the admission and upsert
// pass is sequential in input order. The pool fully joins before Transform
// returns, so callers always observe the complete clean population.
func (t *Transformer) Transform(ctx context.Context, raw []domain.RawRecord) ([]domain.CleanRecord, TransformStats, error) {
	stats := TransformStats{RowsRead: len(raw)}

	candidates := make([]candidate, len(raw))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)
	for i := range raw {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			candidates[i] = normalizeRecord(&raw[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, stats, err
	}

	index := make(map[string]int, len(raw))
	clean := make([]domain.CleanRecord, 0, len(raw))
	for i := range candidates {
		c := &candidates[i]
		if c.unparsablePrice {
			stats.UnparsablePrice++
		}
		if c.unparsableIncome {
			stats.UnparsableIncome++
		}
		if !c.admitted {
			stats.Rejected++
			t.logger.Debug("rejected row with blank identifier",
				slog.Int("line", raw[i].Line))
			continue
		}
		if pos, ok := index[c.record.ID]; ok {
			clean[pos] = c.record
			stats.Replaced++
			continue
		}
		index[c.record.ID] = len(clean)
		clean = append(clean, c.record)
	}
	stats.Admitted = len(clean)

	t.logger.Info("transform complete",
		slog.Int("rows_read", stats.RowsRead),
		slog.Int("admitted", stats.Admitted),
		slog.Int("rejected", stats.Rejected),
		slog.Int("replaced", stats.Replaced))
	return clean, stats, nil
}

// normalizeRecord applies every field normalizer to one raw row. Admission
// depends solely on the identifier.
func normalizeRecord(raw *domain.RawRecord) candidate {
	var c candidate

	id := normalize.ID(raw.ID)
	if id == "" {
		return c
	}
	c.admitted = true

	price, err := normalize.Amount(raw.Price)
	if err != nil {
		c.unparsablePrice = true
	}
	income, err := normalize.Amount(raw.AnnualIncome)
	if err != nil {
		c.unparsableIncome = true
	}

	c.record = domain.CleanRecord{
		ID:           id,
		Date:         normalize.Date(raw.Date),
		CustomerName: normalize.Text(raw.CustomerName),
		Gender:       normalize.Gender(raw.Gender),
		AnnualIncome: income,
		DealerName:   normalize.Text(raw.DealerName),
		Company:      normalize.Text(raw.Company),
		Model:        normalize.Text(raw.Model),
		Engine:       normalize.Engine(raw.Engine),
		Transmission: normalize.Text(raw.Transmission),
		Color:        normalize.Text(raw.Color),
		Price:        price,
		DealerNo:     normalize.Opaque(raw.DealerNo),
		BodyStyle:    normalize.Text(raw.BodyStyle),
		Phone:        normalize.Opaque(raw.Phone),
		DealerRegion: normalize.Text(raw.DealerRegion),
		Line:         raw.Line,
	}
	return c
}
