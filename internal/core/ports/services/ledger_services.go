package services

import (
	"context"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	"github.com/hostelhq/hostel_ledger/internal/dto"
)

// LedgerSvcFacade is the single write path into the ledger: payments, refund
// mirrors, payouts and settlement confirmations. All invariant enforcement
// (over-refund, available balance) lives behind this facade.
type LedgerSvcFacade interface {
	// CreateIncome appends a payment entry. The amount literal must
	// normalize to a value > 0.
	CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, creatorUserID string) (*domain.Transaction, error)

	// RequestRefund validates and appends a refund mirror entry against a
	// completed income transaction.
	RequestRefund(ctx context.Context, originalTransactionID string, req dto.RefundRequest, creatorUserID string) (*domain.Transaction, error)

	// RequestPayout validates and appends an owner withdrawal entry.
	RequestPayout(ctx context.Context, req dto.PayoutRequest, creatorUserID string) (*domain.Transaction, error)

	// ConfirmSettlement applies the PENDING -> COMPLETED/FAILED transition.
	ConfirmSettlement(ctx context.Context, transactionID string, outcome domain.TransactionStatus, updaterUserID string) (*domain.Transaction, error)

	// GetTransaction fetches a single ledger entry.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns a filtered page of entries plus total count,
	// newest-first.
	ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error)
}
