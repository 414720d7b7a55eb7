package pgsql

import (
	"context"
	"time"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	"github.com/hostelhq/hostel_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface.
type reportingRepository struct {
	BaseRepository
	txnRepo *PgxTransactionRepository
}

// newReportingRepository creates a new reporting repository.
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: pool},
		txnRepo:        &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// FindRevenueTransactions retrieves the completed positive income entries
// for the monthly revenue rollup. Legacy payout-encoded income rows are
// withdrawals, not revenue, and are excluded here.
func (r *reportingRepository) FindRevenueTransactions(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE kind = $1
			AND status = $2
			AND amount > 0
			AND method <> $3
			AND ($4::timestamptz IS NULL OR occurred_at >= $4)
			AND ($5::timestamptz IS NULL OR occurred_at <= $5)
		ORDER BY occurred_at;
	`
	rows, err := r.Pool.Query(ctx, query,
		string(domain.KindIncome),
		string(domain.StatusCompleted),
		domain.MethodPayout,
		from,
		to,
	)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query revenue transactions", err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := r.txnRepo.scanOne(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan revenue row", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate revenue rows", err)
	}
	return txns, nil
}
