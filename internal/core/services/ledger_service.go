package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
	"github.com/hostelhq/hostel_ledger/internal/dto"
	"github.com/hostelhq/hostel_ledger/internal/utils/amount"
	"github.com/hostelhq/hostel_ledger/internal/utils/keyedlock"
)

const (
	refundLockPrefix = "refund:"
	payoutLockPrefix = "payout:"
)

// ledgerService is the single write path into the ledger. It owns the
// check-then-append critical sections: a refund request serializes on the
// original transaction ID, a payout request on the owner ID, so two
// concurrent requests can never both pass validation before either appends.
type ledgerService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryWithTx
	ownershipSvc portssvc.OwnershipSvcFacade
	balanceSvc   portssvc.BalanceSvcFacade
	locks        *keyedlock.KeyedMutex
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(
	txnRepo portsrepo.TransactionRepositoryWithTx,
	ownershipSvc portssvc.OwnershipSvcFacade,
	balanceSvc portssvc.BalanceSvcFacade,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		txnRepo:      txnRepo,
		ownershipSvc: ownershipSvc,
		balanceSvc:   balanceSvc,
		locks:        keyedlock.New(),
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateIncome appends a payment entry. Status is PENDING unless the caller
// marks it completed synchronously (cash at the desk).
func (s *ledgerService) CreateIncome(ctx context.Context, req dto.CreateIncomeRequest, creatorUserID string) (*domain.Transaction, error) {
	mag, err := amount.Normalize(req.Amount)
	if err != nil {
		return nil, err
	}
	if !mag.IsPositive() {
		return nil, fmt.Errorf("%w: income amount must be greater than zero, got %s", apperrors.ErrMalformedAmount, mag)
	}

	now := time.Now().UTC()
	occurredAt := now
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}
	status := domain.StatusPending
	if req.Completed {
		status = domain.StatusCompleted
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		PartyID:       req.PayerID,
		BookingID:     req.BookingID,
		Amount:        mag,
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		OccurredAt:    occurredAt,
		Method:        req.Method,
		Kind:          domain.KindIncome,
		Status:        status,
		AuditFields:   newAuditFields(now, creatorUserID),
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to save income transaction: %w", err)
	}

	s.LogInfo(ctx, "Income transaction recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("payer_id", txn.PartyID),
		slog.String("status", string(txn.Status)))
	return &txn, nil
}

// RequestRefund validates and appends a refund mirror entry. The original is
// never mutated; the refund is a new row linked via MirrorOf. The whole
// recompute-validate-append sequence holds the per-original critical section.
func (s *ledgerService) RequestRefund(ctx context.Context, originalTransactionID string, req dto.RefundRequest, creatorUserID string) (*domain.Transaction, error) {
	mag, err := amount.Normalize(req.Amount)
	if err != nil {
		return nil, err
	}
	if !mag.IsPositive() {
		return nil, fmt.Errorf("%w: refund amount must be greater than zero, got %s", apperrors.ErrMalformedAmount, mag)
	}

	s.locks.Lock(refundLockPrefix + originalTransactionID)
	defer s.locks.Unlock(refundLockPrefix + originalTransactionID)

	original, err := s.txnRepo.FindTransactionByID(ctx, originalTransactionID)
	if err != nil {
		return nil, err
	}
	if original.Kind != domain.KindIncome {
		return nil, fmt.Errorf("%w: refunds may only mirror income transactions, %s is %s",
			apperrors.ErrValidation, originalTransactionID, original.Kind)
	}
	if !original.IsCompleted() {
		return nil, fmt.Errorf("%w: original transaction %s is %s, only completed income is refundable",
			apperrors.ErrValidation, originalTransactionID, original.Status)
	}

	alreadyRefunded, err := s.sumCompletedRefunds(ctx, originalTransactionID)
	if err != nil {
		return nil, err
	}
	if alreadyRefunded.Add(mag).GreaterThan(original.Amount) {
		return nil, fmt.Errorf("%w: requested %s, refundable %s of original %s",
			apperrors.ErrOverRefund, mag, original.Amount.Sub(alreadyRefunded), original.Amount)
	}

	// The refund also has to clear against the owner's funds on hand. An
	// unattributed original has no owner scope to check; the per-original
	// cap above still bounds it.
	attr, err := s.ownershipSvc.ResolveOwner(ctx, *original)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve owner of %s: %w", originalTransactionID, err)
	}
	if attr.Attributed {
		if err := s.checkAvailableBalance(ctx, attr.OwnerID, mag); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	refund := domain.Transaction{
		TransactionID: uuid.NewString(),
		PartyID:       original.PartyID,
		BookingID:     original.BookingID,
		Amount:        mag,
		CurrencyCode:  original.CurrencyCode,
		OccurredAt:    now,
		Method:        req.Method,
		Kind:          domain.KindRefund,
		Status:        domain.StatusCompleted,
		MirrorOf:      &original.TransactionID,
		AuditFields:   newAuditFields(now, creatorUserID),
	}
	if err := s.txnRepo.SaveTransaction(ctx, refund); err != nil {
		return nil, fmt.Errorf("failed to save refund transaction: %w", err)
	}

	s.LogInfo(ctx, "Refund recorded",
		slog.String("transaction_id", refund.TransactionID),
		slog.String("mirror_of", original.TransactionID),
		slog.String("amount", mag.String()))
	return &refund, nil
}

// RequestPayout validates and appends an owner withdrawal. The caller must
// be the owner being debited. The balance check and the append hold the
// per-owner critical section.
func (s *ledgerService) RequestPayout(ctx context.Context, req dto.PayoutRequest, creatorUserID string) (*domain.Transaction, error) {
	if creatorUserID != req.OwnerID {
		return nil, fmt.Errorf("%w: caller %s may not withdraw for owner %s", apperrors.ErrForbidden, creatorUserID, req.OwnerID)
	}

	mag, err := amount.Normalize(req.Amount)
	if err != nil {
		return nil, err
	}
	if !mag.IsPositive() {
		return nil, fmt.Errorf("%w: payout amount must be greater than zero, got %s", apperrors.ErrMalformedAmount, mag)
	}

	s.locks.Lock(payoutLockPrefix + req.OwnerID)
	defer s.locks.Unlock(payoutLockPrefix + req.OwnerID)

	if err := s.checkAvailableBalance(ctx, req.OwnerID, mag); err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = domain.MethodPayout
	}

	now := time.Now().UTC()
	payout := domain.Transaction{
		TransactionID: uuid.NewString(),
		PartyID:       req.OwnerID,
		Amount:        mag,
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		OccurredAt:    now,
		Method:        method,
		Kind:          domain.KindPayout,
		Status:        domain.StatusCompleted,
		AuditFields:   newAuditFields(now, creatorUserID),
	}
	if err := s.txnRepo.SaveTransaction(ctx, payout); err != nil {
		return nil, fmt.Errorf("failed to save payout transaction: %w", err)
	}

	s.LogInfo(ctx, "Payout recorded",
		slog.String("transaction_id", payout.TransactionID),
		slog.String("owner_id", req.OwnerID),
		slog.String("amount", mag.String()))
	return &payout, nil
}

// ConfirmSettlement applies the PENDING -> COMPLETED/FAILED transition. The
// repository enforces the transition with a conditional update; anything
// other than a pending row yields ErrInvalidTransition.
func (s *ledgerService) ConfirmSettlement(ctx context.Context, transactionID string, outcome domain.TransactionStatus, updaterUserID string) (*domain.Transaction, error) {
	if outcome != domain.StatusCompleted && outcome != domain.StatusFailed {
		return nil, fmt.Errorf("%w: settlement outcome must be %s or %s, got %s",
			apperrors.ErrInvalidTransition, domain.StatusCompleted, domain.StatusFailed, outcome)
	}

	now := time.Now().UTC()
	if err := s.txnRepo.TransitionStatus(ctx, transactionID, outcome, updaterUserID, now); err != nil {
		return nil, err
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Settlement confirmed",
		slog.String("transaction_id", transactionID),
		slog.String("outcome", string(outcome)))
	return txn, nil
}

// GetTransaction fetches a single ledger entry.
func (s *ledgerService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return s.txnRepo.FindTransactionByID(ctx, transactionID)
}

// ListTransactions returns a filtered page of entries plus the total count.
func (s *ledgerService) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error) {
	return s.txnRepo.ListTransactions(ctx, filter, limit, offset)
}

// sumCompletedRefunds totals the completed refunds mirroring an income entry.
func (s *ledgerService) sumCompletedRefunds(ctx context.Context, originalTransactionID string) (decimal.Decimal, error) {
	refunds, err := s.txnRepo.FindCompletedRefundsByOriginal(ctx, originalTransactionID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load refunds for %s: %w", originalTransactionID, err)
	}
	sum := decimal.Zero
	for _, r := range refunds {
		sum = sum.Add(r.Amount)
	}
	return sum, nil
}

// checkAvailableBalance fails with ErrInsufficientBalance when the requested
// deduction exceeds the owner's funds on hand.
func (s *ledgerService) checkAvailableBalance(ctx context.Context, ownerID string, requested decimal.Decimal) error {
	available, err := s.balanceSvc.AvailableBalance(ctx, ownerID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to compute available balance for %s: %w", ownerID, err)
	}
	if requested.GreaterThan(available) {
		return fmt.Errorf("%w: requested %s, available %s for owner %s",
			apperrors.ErrInsufficientBalance, requested, available, ownerID)
	}
	return nil
}

func newAuditFields(now time.Time, userID string) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
}
