package domain

// Metrics is the aggregate figure set returned by GET /sales/metrics and by
// JSON report generation. Every numeric field is coerced on ingestion.
type Metrics struct {
	TotalSales     Amount          `json:"totalSales"`
	MonthlySales   []MonthlySales  `json:"monthlySales"`
	SalesByProduct []ProductTotals `json:"salesByProduct"`
}

// MonthlySales is one month's aggregate amount.
type MonthlySales struct {
	Month       string `json:"month"`
	TotalAmount Amount `json:"totalAmount"`
}

// ProductTotals is a per-product aggregate row, ordered by the backend from
// best to worst seller.
type ProductTotals struct {
	ProductID     int64  `json:"productId"`
	ProductName   string `json:"productName"`
	TotalQuantity Amount `json:"totalQuantity"`
	TotalAmount   Amount `json:"totalAmount"`
}

// BestProduct is the backend's top seller, "N/A" when nothing sold yet.
func (m Metrics) BestProduct() string {
	if len(m.SalesByProduct) == 0 || m.SalesByProduct[0].ProductName == "" {
		return "N/A"
	}
	return m.SalesByProduct[0].ProductName
}

// MonthlyAmount is the latest month's total, 0 with no data.
func (m Metrics) MonthlyAmount() float64 {
	if len(m.MonthlySales) == 0 {
		return 0
	}
	return m.MonthlySales[0].TotalAmount.Float()
}

// ReportFormat selects the report output.
type ReportFormat string

const (
	ReportFormatJSON ReportFormat = "json"
	ReportFormatPDF  ReportFormat = "pdf"
)

// ReportRequest is the filter set accepted by POST /reports/generate.
// Zero values are omitted on the wire.
type ReportRequest struct {
	StartDate string       `json:"startDate,omitempty"`
	EndDate   string       `json:"endDate,omitempty"`
	ProductID int64        `json:"productId,omitempty"`
	Format    ReportFormat `json:"format"`
}
