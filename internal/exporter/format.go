package exporter

import (
	"fmt"
	"strconv"

	"carsales/pkg/contracts/domain"
)

// View is one named, export-ready table.
type View struct {
	Name    string
	Headers []string
	Records [][]string
}

// CleanView formats the clean dataset. Absent values export as empty cells,
// keeping "no price recorded" distinguishable from a zero price.
func CleanView(clean []domain.CleanRecord) View {
	v := View{
		Name: "clean_sales",
		Headers: []string{
			"car_id", "date", "customer_name", "gender", "annual_income",
			"dealer_name", "company", "model", "engine", "transmission",
			"color", "price", "dealer_no", "body_style", "phone", "dealer_region",
		},
	}
	for i := range clean {
		c := &clean[i]
		date := ""
		if c.Date != nil {
			date = c.Date.Format("2006-01-02")
		}
		v.Records = append(v.Records, []string{
			c.ID, date, c.CustomerName, c.Gender, amount(c.AnnualIncome),
			c.DealerName, c.Company, c.Model, c.Engine, c.Transmission,
			c.Color, amount(c.Price), c.DealerNo, c.BodyStyle, c.Phone, c.DealerRegion,
		})
	}
	return v
}

// DerivedView formats the export dataset external reporting tools consume.
func DerivedView(derived []domain.DerivedRecord) View {
	v := View{
		Name: "sales_export",
		Headers: []string{
			"car_id", "date", "customer_name", "gender", "annual_income",
			"dealer_name", "company", "model", "engine", "transmission",
			"color", "price", "dealer_no", "body_style", "phone", "dealer_region",
			"year", "month", "month_label", "price_segment", "price_category",
		},
	}
	for i := range derived {
		d := &derived[i]
		date, year, month := "", "", ""
		if d.HasDate() {
			date = d.Date.Format("2006-01-02")
			year = strconv.Itoa(d.Year)
			month = strconv.Itoa(d.Month)
		}
		v.Records = append(v.Records, []string{
			d.ID, date, d.CustomerName, d.Gender, float2(d.AnnualIncome),
			d.DealerName, d.Company, d.Model, d.Engine, d.Transmission,
			d.Color, float2(d.Price), d.DealerNo, d.BodyStyle, d.Phone, d.DealerRegion,
			year, month, d.MonthLabel, string(d.PriceSegment), string(d.PriceCategory),
		})
	}
	return v
}

// ReportViews formats every report of the set, in stable name order.
func ReportViews(set *domain.ReportSet) []View {
	views := make([]View, 0, len(set.Names()))

	rv := View{Name: domain.ReportRevenueByRegion,
		Headers: []string{"dealer_region", "deals", "total_revenue", "avg_price"}}
	for _, r := range set.RevenueByRegion {
		rv.Records = append(rv.Records, []string{
			r.DealerRegion, strconv.Itoa(r.Deals), float2(r.TotalRevenue), float2(r.AvgPrice)})
	}
	views = append(views, rv)

	tc := View{Name: domain.ReportTopCustomers,
		Headers: []string{"customer_name", "gender", "annual_income", "deals", "total_revenue"}}
	for _, r := range set.TopCustomers {
		tc.Records = append(tc.Records, []string{
			r.CustomerName, r.Gender, float2(r.AnnualIncome), strconv.Itoa(r.Deals), float2(r.TotalRevenue)})
	}
	views = append(views, tc)

	ds := View{Name: domain.ReportDealSize,
		Headers: []string{"price_segment", "deals", "total_revenue"}}
	for _, r := range set.DealSize {
		ds.Records = append(ds.Records, []string{
			string(r.PriceSegment), strconv.Itoa(r.Deals), float2(r.TotalRevenue)})
	}
	views = append(views, ds)

	mr := View{Name: domain.ReportMonthlyRevenue,
		Headers: []string{"year", "month", "month_label", "total_revenue", "deals"}}
	for _, r := range set.MonthlyRevenue {
		mr.Records = append(mr.Records, []string{
			strconv.Itoa(r.Year), strconv.Itoa(r.Month), r.MonthLabel, float2(r.TotalRevenue), strconv.Itoa(r.Deals)})
	}
	views = append(views, mr)

	ns := set.NullSummary
	views = append(views, View{
		Name: domain.ReportNullSummary,
		Headers: []string{
			"admitted_rows", "rejected_rows", "missing_customer_name", "missing_company",
			"missing_dealer_region", "missing_price", "missing_gender",
			"unparsable_price", "unparsable_income",
		},
		Records: [][]string{{
			strconv.Itoa(ns.AdmittedRows), strconv.Itoa(ns.RejectedRows),
			strconv.Itoa(ns.MissingCustomerName), strconv.Itoa(ns.MissingCompany),
			strconv.Itoa(ns.MissingDealerRegion), strconv.Itoa(ns.MissingPrice),
			strconv.Itoa(ns.MissingGender), strconv.Itoa(ns.UnparsablePrice),
			strconv.Itoa(ns.UnparsableIncome),
		}},
	})

	cr := View{Name: domain.ReportCompanyRegionRevenue,
		Headers: []string{"company", "dealer_region", "total_revenue"}}
	for _, r := range set.CompanyRegionRevenue {
		cr.Records = append(cr.Records, []string{r.Company, r.DealerRegion, float2(r.TotalRevenue)})
	}
	views = append(views, cr)

	k := set.KPISummary
	views = append(views, View{
		Name: domain.ReportKPISummary,
		Headers: []string{
			"total_revenue", "total_orders", "avg_order_value",
			"avg_revenue_per_customer", "top_customer_name",
			"top_customer_revenue", "monthly_growth_pct",
		},
		Records: [][]string{{
			float2(k.TotalRevenue), strconv.Itoa(k.TotalOrders), float2(k.AvgOrderValue),
			float2(k.AvgRevenuePerCustomer), k.TopCustomerName,
			float2(k.TopCustomerRevenue), float2(k.MonthlyGrowthPct),
		}},
	})

	return views
}

func amount(v *float64) string {
	if v == nil {
		return ""
	}
	return float2(*v)
}

func float2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
