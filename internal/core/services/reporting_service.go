package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService produces the monthly revenue rollup. The series is
// materialized fresh on every call; at this scale an incremental rollup
// buys nothing.
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new ReportingService.
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{reportingRepo: reportingRepo}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

type monthKey struct {
	year  int
	month time.Month
}

// MonthlyRevenue groups completed positive income entries by calendar month
// of OccurredAt, ascending by (year, month). Legacy payout-encoded income
// rows are excluded at the source.
func (s *reportingService) MonthlyRevenue(ctx context.Context, from, to *time.Time) ([]domain.MonthlyRevenueRow, error) {
	txns, err := s.reportingRepo.FindRevenueTransactions(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue transactions: %w", err)
	}

	buckets := make(map[monthKey]*domain.MonthlyRevenueRow)
	for _, txn := range txns {
		if !txn.IsRevenueRow() {
			// The repository already filters; this guards alternate
			// implementations (in-memory stores in tests).
			continue
		}
		key := monthKey{year: txn.OccurredAt.Year(), month: txn.OccurredAt.Month()}
		row, ok := buckets[key]
		if !ok {
			row = &domain.MonthlyRevenueRow{
				Year:  key.year,
				Month: int(key.month),
				Total: decimal.Zero,
			}
			buckets[key] = row
		}
		row.Total = row.Total.Add(txn.Amount)
		row.Count++
	}

	rows := make([]domain.MonthlyRevenueRow, 0, len(buckets))
	for _, row := range buckets {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Year != rows[j].Year {
			return rows[i].Year < rows[j].Year
		}
		return rows[i].Month < rows[j].Month
	})

	s.LogDebug(ctx, "Monthly revenue computed", slog.Int("month_count", len(rows)))
	return rows, nil
}
