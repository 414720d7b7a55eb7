package services

import (
	"context"
	"time"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
)

// ReportingSvcFacade produces the monthly revenue time series.
type ReportingSvcFacade interface {
	// MonthlyRevenue groups completed positive income entries by calendar
	// month of OccurredAt, ascending by (year, month). Both range bounds
	// are optional.
	MonthlyRevenue(ctx context.Context, from, to *time.Time) ([]domain.MonthlyRevenueRow, error)
}
