package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService computes owner balances fresh from the transaction set on
// every call. Nothing is cached; the ledger is the only source of truth.
type balanceService struct {
	BaseService
	txnRepo      portsrepo.TransactionReader
	ownershipSvc portssvc.OwnershipSvcFacade
}

// NewBalanceService creates a new BalanceService.
func NewBalanceService(txnRepo portsrepo.TransactionReader, ownershipSvc portssvc.OwnershipSvcFacade) portssvc.BalanceSvcFacade {
	return &balanceService{txnRepo: txnRepo, ownershipSvc: ownershipSvc}
}

var _ portssvc.BalanceSvcFacade = (*balanceService)(nil)

// AvailableBalance returns the owner's withdrawable funds as of the given
// instant:
//
//	available = Σ income (method ≠ payout) − Σ payouts − Σ refunds
//
// over COMPLETED entries attributed to the owner with OccurredAt <= asOf.
// Legacy INCOME rows tagged with the payout method are withdrawals in
// disguise and deduct like true payouts, counted exactly once.
func (s *balanceService) AvailableBalance(ctx context.Context, ownerID string, asOf time.Time) (decimal.Decimal, error) {
	txns, err := s.txnRepo.FindCompletedTransactionsUpTo(ctx, asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load completed transactions: %w", err)
	}

	attrs, err := s.ownershipSvc.ResolveOwnerBatch(ctx, txns)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to attribute transactions: %w", err)
	}

	available := decimal.Zero
	for _, txn := range txns {
		attr := attrs[txn.TransactionID]
		if !attr.Attributed || attr.OwnerID != ownerID {
			continue
		}
		switch {
		case txn.IsWithdrawalRow(), txn.Kind == domain.KindRefund:
			available = available.Sub(txn.Amount)
		case txn.Kind == domain.KindIncome:
			available = available.Add(txn.Amount)
		}
	}
	return available, nil
}
