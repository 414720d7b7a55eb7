package repositories

import (
	"context"
	"time"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
)

// ReportingRepository defines operations for retrieving revenue report data.
type ReportingRepository interface {
	// FindRevenueTransactions retrieves the COMPLETED positive INCOME
	// entries (payout-method legacy rows excluded) inside the optional
	// OccurredAt range, for the monthly revenue rollup.
	FindRevenueTransactions(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error)
}
