package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
	"github.com/hostelhq/hostel_ledger/internal/core/services"
	"github.com/hostelhq/hostel_ledger/internal/dto"
)

// --- Test Suite Setup (mock-based unit tests) ---

type LedgerServiceTestSuite struct {
	suite.Suite
	mockTxnRepo      *MockTransactionRepository
	mockOwnershipSvc *MockOwnershipService
	mockBalanceSvc   *MockBalanceService
	service          portssvc.LedgerSvcFacade
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockOwnershipSvc = new(MockOwnershipService)
	suite.mockBalanceSvc = new(MockBalanceService)
	suite.service = services.NewLedgerService(suite.mockTxnRepo, suite.mockOwnershipSvc, suite.mockBalanceSvc)
}

// --- CreateIncome ---

func (suite *LedgerServiceTestSuite) TestCreateIncome_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	bookingID := uuid.NewString()
	req := dto.CreateIncomeRequest{
		PayerID:      uuid.NewString(),
		BookingID:    &bookingID,
		Amount:       "LKR 1,200.00",
		CurrencyCode: "lkr",
		Method:       "card",
	}

	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateIncome(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(req.PayerID, txn.PartyID)
	suite.True(txn.Amount.Equal(decimal.RequireFromString("1200.00")))
	suite.Equal("LKR", txn.CurrencyCode)
	suite.Equal(domain.KindIncome, txn.Kind)
	suite.Equal(domain.StatusPending, txn.Status)
	suite.Nil(txn.MirrorOf)
	suite.Equal(creatorUserID, txn.CreatedBy)
	suite.WithinDuration(time.Now(), txn.CreatedAt, time.Second)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateIncome_CompletedSynchronously() {
	ctx := context.Background()
	req := dto.CreateIncomeRequest{
		PayerID:      uuid.NewString(),
		Amount:       "18000",
		CurrencyCode: "LKR",
		Method:       "cash",
		Completed:    true,
	}

	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	txn, err := suite.service.CreateIncome(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestCreateIncome_NegativeAmount() {
	ctx := context.Background()
	req := dto.CreateIncomeRequest{
		PayerID:      uuid.NewString(),
		Amount:       "-500",
		CurrencyCode: "LKR",
		Method:       "cash",
	}

	txn, err := suite.service.CreateIncome(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMalformedAmount)
	suite.Nil(txn)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *LedgerServiceTestSuite) TestCreateIncome_GarbageAmount() {
	ctx := context.Background()
	req := dto.CreateIncomeRequest{
		PayerID:      uuid.NewString(),
		Amount:       "twelve hundred",
		CurrencyCode: "LKR",
		Method:       "cash",
	}

	txn, err := suite.service.CreateIncome(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrMalformedAmount)
	suite.Nil(txn)
}

// --- RequestRefund ---

func (suite *LedgerServiceTestSuite) makeCompletedIncome(amount string) *domain.Transaction {
	bookingID := uuid.NewString()
	return &domain.Transaction{
		TransactionID: uuid.NewString(),
		PartyID:       uuid.NewString(),
		BookingID:     &bookingID,
		Amount:        decimal.RequireFromString(amount),
		CurrencyCode:  "LKR",
		OccurredAt:    time.Now().UTC(),
		Method:        "card",
		Kind:          domain.KindIncome,
		Status:        domain.StatusCompleted,
	}
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_Success() {
	ctx := context.Background()
	original := suite.makeCompletedIncome("18000")
	ownerID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindCompletedRefundsByOriginal", ctx, original.TransactionID).Return([]domain.Transaction{}, nil).Once()
	suite.mockOwnershipSvc.On("ResolveOwner", ctx, *original).Return(domain.AttributedTo(ownerID), nil).Once()
	suite.mockBalanceSvc.On("AvailableBalance", ctx, ownerID, mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("18000"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	refund, err := suite.service.RequestRefund(ctx, original.TransactionID, dto.RefundRequest{Amount: "5000", Method: "bank"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(refund)
	suite.Equal(domain.KindRefund, refund.Kind)
	suite.Equal(domain.StatusCompleted, refund.Status)
	suite.Require().NotNil(refund.MirrorOf)
	suite.Equal(original.TransactionID, *refund.MirrorOf)
	suite.Equal(original.PartyID, refund.PartyID)
	suite.Equal(original.BookingID, refund.BookingID)
	suite.Equal(original.CurrencyCode, refund.CurrencyCode)
	suite.True(refund.Amount.Equal(decimal.RequireFromString("5000")))

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockBalanceSvc.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_OriginalNotFound() {
	ctx := context.Background()
	missingID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, missingID).Return(nil, apperrors.ErrNotFound).Once()

	refund, err := suite.service.RequestRefund(ctx, missingID, dto.RefundRequest{Amount: "100", Method: "bank"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(refund)
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_OriginalNotCompleted() {
	ctx := context.Background()
	original := suite.makeCompletedIncome("1000")
	original.Status = domain.StatusPending

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()

	refund, err := suite.service.RequestRefund(ctx, original.TransactionID, dto.RefundRequest{Amount: "100", Method: "bank"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(refund)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_OriginalNotIncome() {
	ctx := context.Background()
	original := suite.makeCompletedIncome("1000")
	original.Kind = domain.KindPayout

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()

	refund, err := suite.service.RequestRefund(ctx, original.TransactionID, dto.RefundRequest{Amount: "100", Method: "bank"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(refund)
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_OverRefund() {
	ctx := context.Background()
	original := suite.makeCompletedIncome("18000")
	prior := domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        decimal.RequireFromString("13000"),
		Kind:          domain.KindRefund,
		Status:        domain.StatusCompleted,
		MirrorOf:      &original.TransactionID,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindCompletedRefundsByOriginal", ctx, original.TransactionID).Return([]domain.Transaction{prior}, nil).Once()

	// 13000 already refunded, 5000.01 would exceed the original 18000
	refund, err := suite.service.RequestRefund(ctx, original.TransactionID, dto.RefundRequest{Amount: "5000.01", Method: "bank"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverRefund)
	suite.Nil(refund)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_ExactlyAtCap() {
	ctx := context.Background()
	original := suite.makeCompletedIncome("18000")
	ownerID := uuid.NewString()
	prior := domain.Transaction{
		TransactionID: uuid.NewString(),
		Amount:        decimal.RequireFromString("13000"),
		Kind:          domain.KindRefund,
		Status:        domain.StatusCompleted,
		MirrorOf:      &original.TransactionID,
	}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindCompletedRefundsByOriginal", ctx, original.TransactionID).Return([]domain.Transaction{prior}, nil).Once()
	suite.mockOwnershipSvc.On("ResolveOwner", ctx, *original).Return(domain.AttributedTo(ownerID), nil).Once()
	suite.mockBalanceSvc.On("AvailableBalance", ctx, ownerID, mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("5000"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	// Refunding the exact remainder is allowed
	refund, err := suite.service.RequestRefund(ctx, original.TransactionID, dto.RefundRequest{Amount: "5000", Method: "bank"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.True(refund.Amount.Equal(decimal.RequireFromString("5000")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_InsufficientOwnerBalance() {
	ctx := context.Background()
	original := suite.makeCompletedIncome("18000")
	ownerID := uuid.NewString()

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindCompletedRefundsByOriginal", ctx, original.TransactionID).Return([]domain.Transaction{}, nil).Once()
	suite.mockOwnershipSvc.On("ResolveOwner", ctx, *original).Return(domain.AttributedTo(ownerID), nil).Once()
	suite.mockBalanceSvc.On("AvailableBalance", ctx, ownerID, mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("100"), nil).Once()

	refund, err := suite.service.RequestRefund(ctx, original.TransactionID, dto.RefundRequest{Amount: "5000", Method: "bank"}, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(refund)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *LedgerServiceTestSuite) TestRequestRefund_UnattributedOriginalSkipsBalanceCheck() {
	ctx := context.Background()
	original := suite.makeCompletedIncome("18000")
	original.BookingID = nil

	suite.mockTxnRepo.On("FindTransactionByID", ctx, original.TransactionID).Return(original, nil).Once()
	suite.mockTxnRepo.On("FindCompletedRefundsByOriginal", ctx, original.TransactionID).Return([]domain.Transaction{}, nil).Once()
	suite.mockOwnershipSvc.On("ResolveOwner", ctx, *original).Return(domain.Unattributed(), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	refund, err := suite.service.RequestRefund(ctx, original.TransactionID, dto.RefundRequest{Amount: "5000", Method: "bank"}, uuid.NewString())

	suite.Require().NoError(err)
	suite.NotNil(refund)
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "AvailableBalance")
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- RequestPayout ---

func (suite *LedgerServiceTestSuite) TestRequestPayout_Success() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	suite.mockBalanceSvc.On("AvailableBalance", ctx, ownerID, mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("13000"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	payout, err := suite.service.RequestPayout(ctx, dto.PayoutRequest{OwnerID: ownerID, Amount: "5000", CurrencyCode: "LKR"}, ownerID)

	suite.Require().NoError(err)
	suite.Require().NotNil(payout)
	suite.Equal(domain.KindPayout, payout.Kind)
	suite.Equal(domain.StatusCompleted, payout.Status)
	suite.Equal(ownerID, payout.PartyID)
	suite.Equal(domain.MethodPayout, payout.Method)
	suite.Nil(payout.BookingID)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestRequestPayout_NotOwner() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	someoneElse := uuid.NewString()

	payout, err := suite.service.RequestPayout(ctx, dto.PayoutRequest{OwnerID: ownerID, Amount: "5000", CurrencyCode: "LKR"}, someoneElse)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.Nil(payout)
	suite.mockBalanceSvc.AssertNotCalled(suite.T(), "AvailableBalance")
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *LedgerServiceTestSuite) TestRequestPayout_InsufficientBalance() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	suite.mockBalanceSvc.On("AvailableBalance", ctx, ownerID, mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("13000"), nil).Once()

	// One cent over the available amount
	payout, err := suite.service.RequestPayout(ctx, dto.PayoutRequest{OwnerID: ownerID, Amount: "13000.01", CurrencyCode: "LKR"}, ownerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(payout)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction")
}

func (suite *LedgerServiceTestSuite) TestRequestPayout_ExactBalanceAllowed() {
	ctx := context.Background()
	ownerID := uuid.NewString()

	suite.mockBalanceSvc.On("AvailableBalance", ctx, ownerID, mock.AnythingOfType("time.Time")).Return(decimal.RequireFromString("13000"), nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()

	payout, err := suite.service.RequestPayout(ctx, dto.PayoutRequest{OwnerID: ownerID, Amount: "13000", CurrencyCode: "LKR"}, ownerID)

	suite.Require().NoError(err)
	suite.True(payout.Amount.Equal(decimal.RequireFromString("13000")))
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- ConfirmSettlement ---

func (suite *LedgerServiceTestSuite) TestConfirmSettlement_Success() {
	ctx := context.Background()
	updaterID := uuid.NewString()
	txnID := uuid.NewString()
	settled := &domain.Transaction{
		TransactionID: txnID,
		Kind:          domain.KindIncome,
		Status:        domain.StatusCompleted,
	}

	suite.mockTxnRepo.On("TransitionStatus", ctx, txnID, domain.StatusCompleted, updaterID, mock.AnythingOfType("time.Time")).Return(nil).Once()
	suite.mockTxnRepo.On("FindTransactionByID", ctx, txnID).Return(settled, nil).Once()

	txn, err := suite.service.ConfirmSettlement(ctx, txnID, domain.StatusCompleted, updaterID)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, txn.Status)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestConfirmSettlement_IllegalOutcome() {
	ctx := context.Background()

	txn, err := suite.service.ConfirmSettlement(ctx, uuid.NewString(), domain.StatusPending, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(txn)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "TransitionStatus")
}

func (suite *LedgerServiceTestSuite) TestConfirmSettlement_AlreadySettled() {
	ctx := context.Background()
	updaterID := uuid.NewString()
	txnID := uuid.NewString()

	suite.mockTxnRepo.On("TransitionStatus", ctx, txnID, domain.StatusFailed, updaterID, mock.AnythingOfType("time.Time")).Return(apperrors.ErrInvalidTransition).Once()

	txn, err := suite.service.ConfirmSettlement(ctx, txnID, domain.StatusFailed, updaterID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Nil(txn)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

// --- Scenario tests over the in-memory store ---
//
// These wire the real balance and ownership services behind the ledger
// service, so every validation reads its own prior writes.

type LedgerScenarioTestSuite struct {
	suite.Suite
	store   *fakeLedgerStore
	ledger  portssvc.LedgerSvcFacade
	balance portssvc.BalanceSvcFacade

	ownerID   string
	partyID   string
	bookingID string
}

func (suite *LedgerScenarioTestSuite) SetupTest() {
	suite.store = newFakeLedgerStore()
	ownershipSvc := services.NewOwnershipService(suite.store)
	suite.balance = services.NewBalanceService(suite.store, ownershipSvc)
	suite.ledger = services.NewLedgerService(suite.store, ownershipSvc, suite.balance)

	suite.ownerID = uuid.NewString()
	suite.partyID = uuid.NewString()
	suite.bookingID = suite.store.seedChain(uuid.NewString(), uuid.NewString(), uuid.NewString(), suite.ownerID, suite.partyID)
}

func (suite *LedgerScenarioTestSuite) recordIncome(amount string) *domain.Transaction {
	txn, err := suite.ledger.CreateIncome(context.Background(), dto.CreateIncomeRequest{
		PayerID:      suite.partyID,
		BookingID:    &suite.bookingID,
		Amount:       amount,
		CurrencyCode: "LKR",
		Method:       "card",
		Completed:    true,
	}, suite.partyID)
	suite.Require().NoError(err)
	return txn
}

func (suite *LedgerScenarioTestSuite) ownerBalance() decimal.Decimal {
	bal, err := suite.balance.AvailableBalance(context.Background(), suite.ownerID, time.Now().UTC().Add(time.Minute))
	suite.Require().NoError(err)
	return bal
}

func (suite *LedgerScenarioTestSuite) TestPayoutLifecycle() {
	ctx := context.Background()
	suite.recordIncome("18000")

	suite.True(suite.ownerBalance().Equal(decimal.RequireFromString("18000")))

	// First withdrawal
	_, err := suite.ledger.RequestPayout(ctx, dto.PayoutRequest{OwnerID: suite.ownerID, Amount: "5000", CurrencyCode: "LKR"}, suite.ownerID)
	suite.Require().NoError(err)
	suite.True(suite.ownerBalance().Equal(decimal.RequireFromString("13000")))

	// One cent over what remains
	before := len(suite.store.snapshot())
	_, err = suite.ledger.RequestPayout(ctx, dto.PayoutRequest{OwnerID: suite.ownerID, Amount: "13000.01", CurrencyCode: "LKR"}, suite.ownerID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Equal(before, len(suite.store.snapshot()), "a rejected payout must not append anything")

	// Draining the exact remainder works
	_, err = suite.ledger.RequestPayout(ctx, dto.PayoutRequest{OwnerID: suite.ownerID, Amount: "13000", CurrencyCode: "LKR"}, suite.ownerID)
	suite.Require().NoError(err)
	suite.True(suite.ownerBalance().IsZero())
}

func (suite *LedgerScenarioTestSuite) TestRefundReducesBalanceImmediately() {
	ctx := context.Background()
	income := suite.recordIncome("18000")

	_, err := suite.ledger.RequestRefund(ctx, income.TransactionID, dto.RefundRequest{Amount: "5000", Method: "bank"}, suite.partyID)
	suite.Require().NoError(err)
	suite.True(suite.ownerBalance().Equal(decimal.RequireFromString("13000")))

	// The original row is untouched
	got, err := suite.ledger.GetTransaction(ctx, income.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, got.Status)
	suite.True(got.Amount.Equal(decimal.RequireFromString("18000")))
}

func (suite *LedgerScenarioTestSuite) TestPartialRefundsUpToCap() {
	ctx := context.Background()
	income := suite.recordIncome("18000")

	_, err := suite.ledger.RequestRefund(ctx, income.TransactionID, dto.RefundRequest{Amount: "13000", Method: "bank"}, suite.partyID)
	suite.Require().NoError(err)

	// Over the remaining 5000 by one cent
	_, err = suite.ledger.RequestRefund(ctx, income.TransactionID, dto.RefundRequest{Amount: "5000.01", Method: "bank"}, suite.partyID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverRefund)

	// The remainder itself is fine
	_, err = suite.ledger.RequestRefund(ctx, income.TransactionID, dto.RefundRequest{Amount: "5000", Method: "bank"}, suite.partyID)
	suite.Require().NoError(err)
	suite.True(suite.ownerBalance().IsZero())

	// Fully refunded now; nothing more to give back
	_, err = suite.ledger.RequestRefund(ctx, income.TransactionID, dto.RefundRequest{Amount: "0.01", Method: "bank"}, suite.partyID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrOverRefund)
}

func (suite *LedgerScenarioTestSuite) TestLegacyPayoutEncodedIncomeDeductsOnce() {
	ctx := context.Background()
	suite.recordIncome("18000")

	// A legacy withdrawal recorded as INCOME with the payout method
	_, err := suite.ledger.CreateIncome(ctx, dto.CreateIncomeRequest{
		PayerID:      suite.partyID,
		BookingID:    &suite.bookingID,
		Amount:       "3000",
		CurrencyCode: "LKR",
		Method:       domain.MethodPayout,
		Completed:    true,
	}, suite.partyID)
	suite.Require().NoError(err)

	suite.True(suite.ownerBalance().Equal(decimal.RequireFromString("15000")))
}

func (suite *LedgerScenarioTestSuite) TestPendingIncomeInvisibleUntilSettled() {
	ctx := context.Background()
	txn, err := suite.ledger.CreateIncome(ctx, dto.CreateIncomeRequest{
		PayerID:      suite.partyID,
		BookingID:    &suite.bookingID,
		Amount:       "9000",
		CurrencyCode: "LKR",
		Method:       "bank",
	}, suite.partyID)
	suite.Require().NoError(err)
	suite.True(suite.ownerBalance().IsZero(), "pending income must not count")

	_, err = suite.ledger.ConfirmSettlement(ctx, txn.TransactionID, domain.StatusCompleted, suite.partyID)
	suite.Require().NoError(err)
	suite.True(suite.ownerBalance().Equal(decimal.RequireFromString("9000")))

	// A second settlement of the same row is illegal
	_, err = suite.ledger.ConfirmSettlement(ctx, txn.TransactionID, domain.StatusFailed, suite.partyID)
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *LedgerScenarioTestSuite) TestConcurrentRefundsNeverExceedCap() {
	ctx := context.Background()
	income := suite.recordIncome("10000")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.ledger.RequestRefund(ctx, income.TransactionID, dto.RefundRequest{Amount: "6000", Method: "bank"}, suite.partyID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, apperrors.ErrOverRefund)
		}
	}
	suite.Equal(1, succeeded, "only one 6000 refund fits inside the 10000 original")

	refunds, err := suite.store.FindCompletedRefundsByOriginal(ctx, income.TransactionID)
	suite.Require().NoError(err)
	suite.Len(refunds, 1)
}

func (suite *LedgerScenarioTestSuite) TestConcurrentPayoutsNeverOverdraw() {
	ctx := context.Background()
	suite.recordIncome("10000")

	const attempts = 8
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.ledger.RequestPayout(ctx, dto.PayoutRequest{OwnerID: suite.ownerID, Amount: "6000", CurrencyCode: "LKR"}, suite.ownerID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
		}
	}
	suite.Equal(1, succeeded, "only one 6000 payout fits inside the 10000 balance")
	suite.False(suite.ownerBalance().IsNegative())
}

func TestLedgerScenarioTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerScenarioTestSuite))
}
