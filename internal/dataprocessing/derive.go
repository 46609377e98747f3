package dataprocessing

import (
	"log/slog"
	"math"
	"sort"

	"carsales/pkg/contracts/domain"
)

// Fixed price band thresholds.
const (
	segmentHighFloor   = 40000.0
	segmentMediumFloor = 20000.0
)

// PriceThresholds is the percentile snapshot of one clean population. Valid
// is false when the population carries no recorded prices, in which case
// every price category is Unknown.
type PriceThresholds struct {
	P50   float64
	P75   float64
	Valid bool
}

// ComputeThresholds computes the 50th and 75th continuous percentiles of
// price over the full clean population. Absent prices carry no information
// about the distribution and are excluded; explicit zeros are not.
// Thresholds must be recomputed whenever the population changes.
func ComputeThresholds(clean []domain.CleanRecord) PriceThresholds {
	prices := make([]float64, 0, len(clean))
	for i := range clean {
		if clean[i].Price != nil {
			prices = append(prices, *clean[i].Price)
		}
	}
	if len(prices) == 0 {
		return PriceThresholds{}
	}
	sort.Float64s(prices)
	return PriceThresholds{
		P50:   percentile(prices, 0.50),
		P75:   percentile(prices, 0.75),
		Valid: true,
	}
}

// percentile computes the q-th continuous percentile of a sorted sample
// using linear interpolation between closest ranks.
func percentile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	h := float64(n-1) * q
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Derive computes the analytics view of the clean set. It is an explicit
// two-phase computation: percentile thresholds are frozen once over the
// complete population, then every record is mapped against them. The result
// is re-derivable deterministically from the same clean set.
func Derive(logger *slog.Logger, clean []domain.CleanRecord) []domain.DerivedRecord {
	if logger == nil {
		logger = slog.Default()
	}
	thresholds := ComputeThresholds(clean)
	if !thresholds.Valid {
		logger.Warn("no recorded prices in clean population, price categories will be Unknown")
	}

	derived := make([]domain.DerivedRecord, len(clean))
	for i := range clean {
		derived[i] = deriveRecord(&clean[i], thresholds)
	}

	logger.Info("derivation complete",
		slog.Int("records", len(derived)),
		slog.Float64("p50", thresholds.P50),
		slog.Float64("p75", thresholds.P75))
	return derived
}

func deriveRecord(c *domain.CleanRecord, t PriceThresholds) domain.DerivedRecord {
	d := domain.DerivedRecord{
		ID:           c.ID,
		Date:         c.Date,
		CustomerName: c.CustomerName,
		Gender:       c.Gender,
		AnnualIncome: coalesce(c.AnnualIncome),
		DealerName:   c.DealerName,
		Company:      c.Company,
		Model:        c.Model,
		Engine:       c.Engine,
		Transmission: c.Transmission,
		Color:        c.Color,
		Price:        coalesce(c.Price),
		DealerNo:     c.DealerNo,
		BodyStyle:    c.BodyStyle,
		Phone:        c.Phone,
		DealerRegion: c.DealerRegion,
	}

	if c.Date != nil {
		d.Year = c.Date.Year()
		d.Month = int(c.Date.Month())
		d.MonthLabel = c.Date.Format("Jan 2006")
	}

	d.PriceSegment = segmentFor(d.Price)
	d.PriceCategory = categoryFor(d.Price, t)
	return d
}

// segmentFor classifies a coalesced price into the fixed bands. The bounds
// are inclusive at the floor of each band: 20000.00 is Medium, 40000.00 is
// High, 0 is Unknown.
func segmentFor(price float64) domain.PriceSegment {
	switch {
	case price >= segmentHighFloor:
		return domain.SegmentHigh
	case price >= segmentMediumFloor:
		return domain.SegmentMedium
	case price > 0:
		return domain.SegmentLow
	default:
		return domain.SegmentUnknown
	}
}

// categoryFor classifies a coalesced price against the population
// percentile snapshot.
func categoryFor(price float64, t PriceThresholds) domain.PriceCategory {
	if price <= 0 || !t.Valid {
		return domain.CategoryUnknown
	}
	switch {
	case price >= t.P75:
		return domain.CategoryTop25
	case price >= t.P50:
		return domain.CategoryMid
	default:
		return domain.CategoryBottom50
	}
}

func coalesce(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
