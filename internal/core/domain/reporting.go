package domain

import "github.com/shopspring/decimal"

// MonthlyRevenueRow is one bucket of the monthly revenue rollup: completed
// positive income grouped by calendar month of OccurredAt.
type MonthlyRevenueRow struct {
	Year  int             `json:"year"`
	Month int             `json:"month"` // 1..12
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}
