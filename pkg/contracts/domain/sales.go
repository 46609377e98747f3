package domain

import "time"

// RawRecord is one unvalidated input row. Every field is the verbatim text
// from the source; absent cells arrive as empty strings. Line records the
// 1-based source row for traceability.
type RawRecord struct {
	ID           string
	Date         string
	CustomerName string
	Gender       string
	AnnualIncome string
	DealerName   string
	Company      string
	Model        string
	Engine       string
	Transmission string
	Color        string
	Price        string
	DealerNo     string
	BodyStyle    string
	Phone        string
	DealerRegion string
	Line         int
}

// CleanRecord is one validated, typed sale. Text fields use "" for absence;
// Date, AnnualIncome and Price use nil for absence so that a true zero price
// stays distinguishable from an unrecorded one.
type CleanRecord struct {
	ID           string     `json:"id" csv:"car_id"`
	Date         *time.Time `json:"date,omitempty" csv:"date"`
	CustomerName string     `json:"customer_name,omitempty" csv:"customer_name"`
	Gender       string     `json:"gender,omitempty" csv:"gender"`
	AnnualIncome *float64   `json:"annual_income,omitempty" csv:"annual_income"`
	DealerName   string     `json:"dealer_name,omitempty" csv:"dealer_name"`
	Company      string     `json:"company,omitempty" csv:"company"`
	Model        string     `json:"model,omitempty" csv:"model"`
	Engine       string     `json:"engine,omitempty" csv:"engine"`
	Transmission string     `json:"transmission,omitempty" csv:"transmission"`
	Color        string     `json:"color,omitempty" csv:"color"`
	Price        *float64   `json:"price,omitempty" csv:"price"`
	DealerNo     string     `json:"dealer_no,omitempty" csv:"dealer_no"`
	BodyStyle    string     `json:"body_style,omitempty" csv:"body_style"`
	Phone        string     `json:"phone,omitempty" csv:"phone"`
	DealerRegion string     `json:"dealer_region,omitempty" csv:"dealer_region"`
	Line         int        `json:"-" csv:"-"`
}

// PriceSegment is the fixed-threshold price band of a sale.
type PriceSegment string

const (
	SegmentLow     PriceSegment = "Low"
	SegmentMedium  PriceSegment = "Medium"
	SegmentHigh    PriceSegment = "High"
	SegmentUnknown PriceSegment = "Unknown"
)

// PriceCategory is the percentile-relative price band of a sale. It is only
// meaningful relative to the clean population it was derived from.
type PriceCategory string

const (
	CategoryTop25    PriceCategory = "Top 25%"
	CategoryMid      PriceCategory = "50-75%"
	CategoryBottom50 PriceCategory = "Bottom 50%"
	CategoryUnknown  PriceCategory = "Unknown"
)

// DerivedRecord is the export view of a sale: every CleanRecord attribute
// plus the computed ones. AnnualIncome and Price are coalesced to 0 here;
// the CleanRecord keeps true absence.
type DerivedRecord struct {
	ID           string     `json:"id" csv:"car_id"`
	Date         *time.Time `json:"date,omitempty" csv:"date"`
	CustomerName string     `json:"customer_name,omitempty" csv:"customer_name"`
	Gender       string     `json:"gender,omitempty" csv:"gender"`
	AnnualIncome float64    `json:"annual_income" csv:"annual_income"`
	DealerName   string     `json:"dealer_name,omitempty" csv:"dealer_name"`
	Company      string     `json:"company,omitempty" csv:"company"`
	Model        string     `json:"model,omitempty" csv:"model"`
	Engine       string     `json:"engine,omitempty" csv:"engine"`
	Transmission string     `json:"transmission,omitempty" csv:"transmission"`
	Color        string     `json:"color,omitempty" csv:"color"`
	Price        float64    `json:"price" csv:"price"`
	DealerNo     string     `json:"dealer_no,omitempty" csv:"dealer_no"`
	BodyStyle    string     `json:"body_style,omitempty" csv:"body_style"`
	Phone        string     `json:"phone,omitempty" csv:"phone"`
	DealerRegion string     `json:"dealer_region,omitempty" csv:"dealer_region"`

	Year          int           `json:"year,omitempty" csv:"year"`
	Month         int           `json:"month,omitempty" csv:"month"`
	MonthLabel    string        `json:"month_label,omitempty" csv:"month_label"`
	PriceSegment  PriceSegment  `json:"price_segment" csv:"price_segment"`
	PriceCategory PriceCategory `json:"price_category" csv:"price_category"`
}

// HasDate reports whether the sale carries a parsed calendar date.
func (d *DerivedRecord) HasDate() bool {
	return d.Date != nil
}
