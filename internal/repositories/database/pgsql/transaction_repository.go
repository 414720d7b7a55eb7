package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	"github.com/hostelhq/hostel_ledger/internal/models"
	"github.com/hostelhq/hostel_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, party_id, booking_id, amount, currency_code, occurred_at, method, kind, status, mirror_of, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for ledger entries.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// SaveTransaction appends a new ledger entry. Entries are never updated in
// place through this path.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.PartyID,
		m.BookingID,
		m.Amount,
		m.CurrencyCode,
		m.OccurredAt,
		m.Method,
		m.Kind,
		m.Status,
		m.MirrorOf,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// TransitionStatus applies the PENDING -> COMPLETED/FAILED settlement
// transition as a conditional update, so a concurrent confirmation cannot
// apply twice.
func (r *PgxTransactionRepository) TransitionStatus(ctx context.Context, transactionID string, next domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE transactions
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND status = $5;
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, string(next), updatedAt, updatedBy, string(domain.StatusPending))
	if err != nil {
		return apperrors.NewAppError(500, "failed to transition transaction "+transactionID, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing matched: either the entry is missing or it is not pending.
	var current string
	err = r.Pool.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1;`, transactionID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to read status of transaction "+transactionID, err)
	}
	return fmt.Errorf("%w: transaction %s is %s, only pending entries settle", apperrors.ErrInvalidTransition, transactionID, current)
}

// FindTransactionByID retrieves a single ledger entry.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	m, err := r.scanOne(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}
	d := mapping.ToDomainTransaction(*m)
	return &d, nil
}

// ListTransactions retrieves a filtered page, newest-first by occurred_at,
// plus the total count matching the filter.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error) {
	where, args := buildFilter(filter)

	countQuery := `SELECT COUNT(*) FROM transactions` + where
	var total int64
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to count transactions", err)
	}

	query := fmt.Sprintf(`SELECT `+transactionColumns+` FROM transactions%s ORDER BY occurred_at DESC, created_at DESC LIMIT $%d OFFSET $%d;`,
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	txns, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// FindCompletedRefundsByOriginal retrieves all completed refund entries
// mirroring the given income transaction.
func (r *PgxTransactionRepository) FindCompletedRefundsByOriginal(ctx context.Context, originalTransactionID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE mirror_of = $1 AND kind = $2 AND status = $3
		ORDER BY occurred_at;
	`
	rows, err := r.Pool.Query(ctx, query, originalTransactionID, string(domain.KindRefund), string(domain.StatusCompleted))
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query refunds for "+originalTransactionID, err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// FindCompletedTransactionsUpTo retrieves every completed entry with
// occurred_at <= asOf, for the balance engine's fresh recomputation.
func (r *PgxTransactionRepository) FindCompletedTransactionsUpTo(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE status = $1 AND occurred_at <= $2
		ORDER BY occurred_at;
	`
	rows, err := r.Pool.Query(ctx, query, string(domain.StatusCompleted), asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query completed transactions", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// buildFilter assembles the WHERE clause and arguments for a listing filter.
func buildFilter(filter portsrepo.TransactionFilter) (string, []any) {
	var clauses []string
	var args []any

	add := func(clause string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if filter.PartyID != nil {
		add("party_id = $%d", *filter.PartyID)
	}
	if filter.BookingID != nil {
		add("booking_id = $%d", *filter.BookingID)
	}
	if filter.MirrorOf != nil {
		add("mirror_of = $%d", *filter.MirrorOf)
	}
	if filter.Kind != nil {
		add("kind = $%d", string(*filter.Kind))
	}
	if filter.Status != nil {
		add("status = $%d", string(*filter.Status))
	}
	if filter.Method != nil {
		add("method = $%d", *filter.Method)
	}
	if filter.From != nil {
		add("occurred_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("occurred_at <= $%d", *filter.To)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PgxTransactionRepository) scanOne(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.PartyID,
		&m.BookingID,
		&m.Amount,
		&m.CurrencyCode,
		&m.OccurredAt,
		&m.Method,
		&m.Kind,
		&m.Status,
		&m.MirrorOf,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PgxTransactionRepository) scanAll(rows pgx.Rows) ([]domain.Transaction, error) {
	txns := []domain.Transaction{}
	for rows.Next() {
		m, err := r.scanOne(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate transaction rows", err)
	}
	return txns, nil
}
