package dto

import (
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MonthlyRevenueRowResponse is one month bucket of the revenue rollup.
type MonthlyRevenueRowResponse struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// MonthlyRevenueResponse is the full rollup, ascending by (year, month).
type MonthlyRevenueResponse struct {
	Months []MonthlyRevenueRowResponse `json:"months"`
}

// ToMonthlyRevenueResponse converts domain revenue rows to the wire shape.
func ToMonthlyRevenueResponse(rows []domain.MonthlyRevenueRow) MonthlyRevenueResponse {
	resp := MonthlyRevenueResponse{Months: make([]MonthlyRevenueRowResponse, len(rows))}
	for i, r := range rows {
		resp.Months[i] = MonthlyRevenueRowResponse{
			Year:  r.Year,
			Month: r.Month,
			Total: r.Total,
			Count: r.Count,
		}
	}
	return resp
}
