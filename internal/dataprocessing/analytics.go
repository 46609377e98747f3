package dataprocessing

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"carsales/pkg/contracts/domain"
)

// unknownKey is the grouping label for records whose categorical key is
// absent, so reports never emit an empty group name.
const unknownKey = "Unknown"

// topCustomerLimit truncates the top-customers report.
const topCustomerLimit = 20

// Analyzer computes the fixed catalog of summary reports over a derived
// population. Reports are always recomputed in full; nothing is maintained
// incrementally.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger}
}

// BuildReports recomputes every report over the given derived set. The
// reports are mutually independent and run concurrently; each only reads
// the immutable derived slice. stats supplies the admission counters that
// the data-quality report carries alongside the per-field missing counts.
func (a *Analyzer) BuildReports(ctx context.Context, derived []domain.DerivedRecord, stats TransformStats) (*domain.ReportSet, error) {
	set := &domain.ReportSet{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error { set.RevenueByRegion = revenueByRegion(derived); return nil })
	g.Go(func() error { set.TopCustomers = topCustomers(derived); return nil })
	g.Go(func() error { set.DealSize = dealSize(derived); return nil })
	g.Go(func() error { set.MonthlyRevenue = monthlyRevenue(derived); return nil })
	g.Go(func() error { set.NullSummary = nullSummary(derived, stats); return nil })
	g.Go(func() error { set.CompanyRegionRevenue = companyRegionRevenue(derived); return nil })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// KPIs read the monthly trend, so they run after the fan-in.
	set.KPISummary = kpiSummary(derived, set.MonthlyRevenue)

	a.logger.Info("reports rebuilt",
		slog.Int("population", len(derived)),
		slog.Int("regions", len(set.RevenueByRegion)),
		slog.Int("months", len(set.MonthlyRevenue)))
	return set, nil
}

func keyOrUnknown(s string) string {
	if s == "" {
		return unknownKey
	}
	return s
}

func revenueByRegion(derived []domain.DerivedRecord) []domain.RegionRevenue {
	index := make(map[string]int)
	rows := make([]domain.RegionRevenue, 0)
	for i := range derived {
		d := &derived[i]
		key := keyOrUnknown(d.DealerRegion)
		pos, ok := index[key]
		if !ok {
			pos = len(rows)
			index[key] = pos
			rows = append(rows, domain.RegionRevenue{DealerRegion: key})
		}
		rows[pos].Deals++
		rows[pos].TotalRevenue += d.Price
	}
	for i := range rows {
		if rows[i].Deals > 0 {
			rows[i].AvgPrice = round2(rows[i].TotalRevenue / float64(rows[i].Deals))
		}
	}
	// Stable sort keeps first-encounter order on revenue ties.
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue > rows[j].TotalRevenue
	})
	return rows
}

type customerKey struct {
	name   string
	gender string
	income float64
}

func topCustomers(derived []domain.DerivedRecord) []domain.CustomerRevenue {
	index := make(map[customerKey]int)
	rows := make([]domain.CustomerRevenue, 0)
	for i := range derived {
		d := &derived[i]
		key := customerKey{
			name:   keyOrUnknown(d.CustomerName),
			gender: d.Gender,
			income: d.AnnualIncome,
		}
		pos, ok := index[key]
		if !ok {
			pos = len(rows)
			index[key] = pos
			rows = append(rows, domain.CustomerRevenue{
				CustomerName: key.name,
				Gender:       key.gender,
				AnnualIncome: key.income,
			})
		}
		rows[pos].Deals++
		rows[pos].TotalRevenue += d.Price
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue > rows[j].TotalRevenue
	})
	if len(rows) > topCustomerLimit {
		rows = rows[:topCustomerLimit]
	}
	return rows
}

func dealSize(derived []domain.DerivedRecord) []domain.DealSizeBucket {
	index := make(map[domain.PriceSegment]int)
	rows := make([]domain.DealSizeBucket, 0, 4)
	for i := range derived {
		d := &derived[i]
		pos, ok := index[d.PriceSegment]
		if !ok {
			pos = len(rows)
			index[d.PriceSegment] = pos
			rows = append(rows, domain.DealSizeBucket{PriceSegment: d.PriceSegment})
		}
		rows[pos].Deals++
		rows[pos].TotalRevenue += d.Price
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue > rows[j].TotalRevenue
	})
	return rows
}

type monthKey struct {
	year  int
	month int
}

func monthlyRevenue(derived []domain.DerivedRecord) []domain.MonthlyRevenue {
	index := make(map[monthKey]int)
	rows := make([]domain.MonthlyRevenue, 0)
	for i := range derived {
		d := &derived[i]
		if !d.HasDate() {
			continue
		}
		key := monthKey{year: d.Year, month: d.Month}
		pos, ok := index[key]
		if !ok {
			pos = len(rows)
			index[key] = pos
			rows = append(rows, domain.MonthlyRevenue{
				Year:       d.Year,
				Month:      d.Month,
				MonthLabel: d.MonthLabel,
			})
		}
		rows[pos].Deals++
		rows[pos].TotalRevenue += d.Price
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})
	return rows
}

func nullSummary(derived []domain.DerivedRecord, stats TransformStats) domain.NullSummary {
	s := domain.NullSummary{
		AdmittedRows:     stats.Admitted,
		RejectedRows:     stats.Rejected,
		UnparsablePrice:  stats.UnparsablePrice,
		UnparsableIncome: stats.UnparsableIncome,
	}
	for i := range derived {
		d := &derived[i]
		if d.CustomerName == "" {
			s.MissingCustomerName++
		}
		if d.Company == "" {
			s.MissingCompany++
		}
		if d.DealerRegion == "" {
			s.MissingDealerRegion++
		}
		if d.Price == 0 {
			s.MissingPrice++
		}
		if d.Gender == "" {
			s.MissingGender++
		}
	}
	return s
}

type companyRegionKey struct {
	company string
	region  string
}

func companyRegionRevenue(derived []domain.DerivedRecord) []domain.CompanyRegionRevenue {
	index := make(map[companyRegionKey]int)
	rows := make([]domain.CompanyRegionRevenue, 0)
	for i := range derived {
		d := &derived[i]
		key := companyRegionKey{
			company: keyOrUnknown(d.Company),
			region:  keyOrUnknown(d.DealerRegion),
		}
		pos, ok := index[key]
		if !ok {
			pos = len(rows)
			index[key] = pos
			rows = append(rows, domain.CompanyRegionRevenue{
				Company:      key.company,
				DealerRegion: key.region,
			})
		}
		rows[pos].TotalRevenue += d.Price
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TotalRevenue > rows[j].TotalRevenue
	})
	return rows
}

// kpiSummary computes the headline KPI row: totals and averages over the
// derived set, the top customer by revenue, and month-over-month growth of
// the latest two months in the trend.
func kpiSummary(derived []domain.DerivedRecord, monthly []domain.MonthlyRevenue) domain.KPISummary {
	var k domain.KPISummary
	k.TotalOrders = len(derived)

	perCustomer := make(map[string]float64)
	customerOrder := make([]string, 0)
	for i := range derived {
		d := &derived[i]
		k.TotalRevenue += d.Price
		name := keyOrUnknown(d.CustomerName)
		if _, ok := perCustomer[name]; !ok {
			customerOrder = append(customerOrder, name)
		}
		perCustomer[name] += d.Price
	}

	if k.TotalOrders > 0 {
		k.AvgOrderValue = round2(k.TotalRevenue / float64(k.TotalOrders))
	}
	if len(perCustomer) > 0 {
		var sum float64
		for _, v := range perCustomer {
			sum += v
		}
		k.AvgRevenuePerCustomer = round2(sum / float64(len(perCustomer)))
	}

	var best float64
	for _, name := range customerOrder {
		if v := perCustomer[name]; v > best {
			best = v
			k.TopCustomerName = name
		}
	}
	k.TopCustomerRevenue = round2(best)

	if n := len(monthly); n > 1 {
		last := monthly[n-1].TotalRevenue
		prev := monthly[n-2].TotalRevenue
		if prev != 0 {
			k.MonthlyGrowthPct = round2((last - prev) / prev * 100)
		}
	}
	k.TotalRevenue = round2(k.TotalRevenue)
	return k
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
