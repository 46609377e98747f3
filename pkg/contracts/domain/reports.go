package domain

// Stable report names. External consumers address reports by these names,
// never by position.
const (
	ReportRevenueByRegion      = "revenue_by_region"
	ReportTopCustomers         = "top_customers"
	ReportDealSize             = "deal_size"
	ReportMonthlyRevenue       = "monthly_revenue"
	ReportNullSummary          = "null_summary"
	ReportCompanyRegionRevenue = "company_region_revenue"
	ReportKPISummary           = "kpi_summary"
)

// RegionRevenue is one row of the revenue-by-region report.
type RegionRevenue struct {
	DealerRegion string  `json:"dealer_region" csv:"dealer_region"`
	Deals        int     `json:"deals" csv:"deals"`
	TotalRevenue float64 `json:"total_revenue" csv:"total_revenue"`
	AvgPrice     float64 `json:"avg_price" csv:"avg_price"`
}

// CustomerRevenue is one row of the top-customers report.
type CustomerRevenue struct {
	CustomerName string  `json:"customer_name" csv:"customer_name"`
	Gender       string  `json:"gender" csv:"gender"`
	AnnualIncome float64 `json:"annual_income" csv:"annual_income"`
	Deals        int     `json:"deals" csv:"deals"`
	TotalRevenue float64 `json:"total_revenue" csv:"total_revenue"`
}

// DealSizeBucket is one row of the deal-size distribution report.
type DealSizeBucket struct {
	PriceSegment PriceSegment `json:"price_segment" csv:"price_segment"`
	Deals        int          `json:"deals" csv:"deals"`
	TotalRevenue float64      `json:"total_revenue" csv:"total_revenue"`
}

// MonthlyRevenue is one row of the monthly revenue trend, ordered
// chronologically.
type MonthlyRevenue struct {
	Year         int     `json:"year" csv:"year"`
	Month        int     `json:"month" csv:"month"`
	MonthLabel   string  `json:"month_label" csv:"month_label"`
	TotalRevenue float64 `json:"total_revenue" csv:"total_revenue"`
	Deals        int     `json:"deals" csv:"deals"`
}

// NullSummary is the single-row data-quality report. RejectedRows counts raw
// rows dropped at admission (blank identifier); the Missing* counts cover
// admitted rows only. UnparsablePrice/UnparsableIncome count row-level
// currency anomalies observed during transformation, including rows later
// overwritten by a duplicate identifier.
type NullSummary struct {
	AdmittedRows        int `json:"admitted_rows" csv:"admitted_rows"`
	RejectedRows        int `json:"rejected_rows" csv:"rejected_rows"`
	MissingCustomerName int `json:"missing_customer_name" csv:"missing_customer_name"`
	MissingCompany      int `json:"missing_company" csv:"missing_company"`
	MissingDealerRegion int `json:"missing_dealer_region" csv:"missing_dealer_region"`
	MissingPrice        int `json:"missing_price" csv:"missing_price"`
	MissingGender       int `json:"missing_gender" csv:"missing_gender"`
	UnparsablePrice     int `json:"unparsable_price" csv:"unparsable_price"`
	UnparsableIncome    int `json:"unparsable_income" csv:"unparsable_income"`
}

// CompanyRegionRevenue is one cell of the company-by-region revenue heatmap.
type CompanyRegionRevenue struct {
	Company      string  `json:"company" csv:"company"`
	DealerRegion string  `json:"dealer_region" csv:"dealer_region"`
	TotalRevenue float64 `json:"total_revenue" csv:"total_revenue"`
}

// KPISummary is the single-row headline KPI view computed over the derived
// dataset and the monthly trend.
type KPISummary struct {
	TotalRevenue          float64 `json:"total_revenue" csv:"total_revenue"`
	TotalOrders           int     `json:"total_orders" csv:"total_orders"`
	AvgOrderValue         float64 `json:"avg_order_value" csv:"avg_order_value"`
	AvgRevenuePerCustomer float64 `json:"avg_revenue_per_customer" csv:"avg_revenue_per_customer"`
	TopCustomerName       string  `json:"top_customer_name" csv:"top_customer_name"`
	TopCustomerRevenue    float64 `json:"top_customer_revenue" csv:"top_customer_revenue"`
	MonthlyGrowthPct      float64 `json:"monthly_growth_pct" csv:"monthly_growth_pct"`
}

// ReportSet holds one full recomputation of every report over a single
// derived population snapshot.
type ReportSet struct {
	RevenueByRegion      []RegionRevenue        `json:"revenue_by_region"`
	TopCustomers         []CustomerRevenue      `json:"top_customers"`
	DealSize             []DealSizeBucket       `json:"deal_size"`
	MonthlyRevenue       []MonthlyRevenue       `json:"monthly_revenue"`
	NullSummary          NullSummary            `json:"null_summary"`
	CompanyRegionRevenue []CompanyRegionRevenue `json:"company_region_revenue"`
	KPISummary           KPISummary             `json:"kpi_summary"`
}

// Names lists every report name in a stable order.
func (r *ReportSet) Names() []string {
	return []string{
		ReportRevenueByRegion,
		ReportTopCustomers,
		ReportDealSize,
		ReportMonthlyRevenue,
		ReportNullSummary,
		ReportCompanyRegionRevenue,
		ReportKPISummary,
	}
}

// Get returns the report with the given stable name.
func (r *ReportSet) Get(name string) (interface{}, bool) {
	switch name {
	case ReportRevenueByRegion:
		return r.RevenueByRegion, true
	case ReportTopCustomers:
		return r.TopCustomers, true
	case ReportDealSize:
		return r.DealSize, true
	case ReportMonthlyRevenue:
		return r.MonthlyRevenue, true
	case ReportNullSummary:
		return r.NullSummary, true
	case ReportCompanyRegionRevenue:
		return r.CompanyRegionRevenue, true
	case ReportKPISummary:
		return r.KPISummary, true
	}
	return nil, false
}
