package repositories

import (
	"context"
	"time"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
)

// TransactionFilter narrows a ledger listing. Nil fields match everything.
type TransactionFilter struct {
	PartyID   *string
	BookingID *string
	MirrorOf  *string
	Kind      *domain.TransactionKind
	Status    *domain.TransactionStatus
	Method    *string
	From      *time.Time // OccurredAt >= From
	To        *time.Time // OccurredAt <= To
}

// TransactionReader defines read operations over the ledger.
type TransactionReader interface {
	// FindTransactionByID retrieves a single ledger entry, or apperrors.ErrNotFound.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered page of entries, newest-first by
	// OccurredAt, plus the total count matching the filter.
	ListTransactions(ctx context.Context, filter TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error)

	// FindCompletedRefundsByOriginal retrieves all COMPLETED refund entries
	// mirroring the given income transaction.
	FindCompletedRefundsByOriginal(ctx context.Context, originalTransactionID string) ([]domain.Transaction, error)

	// FindCompletedTransactionsUpTo retrieves every COMPLETED entry with
	// OccurredAt <= asOf. The balance engine recomputes from this set on
	// every call; there is no persisted running total.
	FindCompletedTransactionsUpTo(ctx context.Context, asOf time.Time) ([]domain.Transaction, error)
}

// TransactionWriter defines append and settlement operations. Entries are
// never deleted; the only in-place change is the settlement transition.
type TransactionWriter interface {
	// SaveTransaction appends a new ledger entry.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// TransitionStatus performs the PENDING -> COMPLETED/FAILED settlement
	// transition as a conditional update. It returns
	// apperrors.ErrInvalidTransition when the entry exists but is not
	// PENDING, and apperrors.ErrNotFound when it does not exist.
	TransitionStatus(ctx context.Context, transactionID string, next domain.TransactionStatus, updatedBy string, updatedAt time.Time) error
}

// TransactionRepositoryFacade combines ledger read and write operations.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

// TransactionRepositoryWithTx extends the facade with database transaction
// capabilities.
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
