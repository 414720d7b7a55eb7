package services_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryWithTx interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), args.Get(1).(int64), args.Error(2)
}

func (m *MockTransactionRepository) FindCompletedRefundsByOriginal(ctx context.Context, originalTransactionID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, originalTransactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindCompletedTransactionsUpTo(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) TransitionStatus(ctx context.Context, transactionID string, next domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, transactionID, next, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockTransactionRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockTransactionRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockTransactionRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockOwnershipRepository is a mock type for the OwnershipReader interface
type MockOwnershipRepository struct {
	mock.Mock
}

func (m *MockOwnershipRepository) FindBookingsByIDs(ctx context.Context, bookingIDs []string) (map[string]domain.Booking, error) {
	args := m.Called(ctx, bookingIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Booking), args.Error(1)
}

func (m *MockOwnershipRepository) FindRoomsByIDs(ctx context.Context, roomIDs []string) (map[string]domain.Room, error) {
	args := m.Called(ctx, roomIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Room), args.Error(1)
}

func (m *MockOwnershipRepository) FindHostelsByIDs(ctx context.Context, hostelIDs []string) (map[string]domain.Hostel, error) {
	args := m.Called(ctx, hostelIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Hostel), args.Error(1)
}

func (m *MockOwnershipRepository) FindHostelsByOwnerID(ctx context.Context, ownerID string) ([]domain.Hostel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hostel), args.Error(1)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) FindRevenueTransactions(ctx context.Context, from, to *time.Time) ([]domain.Transaction, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// MockOwnershipService is a mock type for the OwnershipSvcFacade interface
type MockOwnershipService struct {
	mock.Mock
}

func (m *MockOwnershipService) ResolveOwner(ctx context.Context, txn domain.Transaction) (domain.Attribution, error) {
	args := m.Called(ctx, txn)
	return args.Get(0).(domain.Attribution), args.Error(1)
}

func (m *MockOwnershipService) ResolveOwnerBatch(ctx context.Context, txns []domain.Transaction) (map[string]domain.Attribution, error) {
	args := m.Called(ctx, txns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Attribution), args.Error(1)
}

func (m *MockOwnershipService) HostelsOwnedBy(ctx context.Context, ownerID string) ([]domain.Hostel, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hostel), args.Error(1)
}

// MockBalanceService is a mock type for the BalanceSvcFacade interface
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) AvailableBalance(ctx context.Context, ownerID string, asOf time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// fakeLedgerStore is an in-memory TransactionRepositoryWithTx plus
// OwnershipReader, for scenario and concurrency tests where a mock's
// pre-programmed answers would hide the read-your-own-writes behavior the
// invariants depend on.
type fakeLedgerStore struct {
	mu       sync.Mutex
	txns     map[string]domain.Transaction
	order    []string
	bookings map[string]domain.Booking
	rooms    map[string]domain.Room
	hostels  map[string]domain.Hostel
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		txns:     make(map[string]domain.Transaction),
		bookings: make(map[string]domain.Booking),
		rooms:    make(map[string]domain.Room),
		hostels:  make(map[string]domain.Hostel),
	}
}

func (f *fakeLedgerStore) snapshot() []domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Transaction, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.txns[id])
	}
	return out
}

func (f *fakeLedgerStore) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (f *fakeLedgerStore) ListTransactions(ctx context.Context, filter portsrepo.TransactionFilter, limit, offset int) ([]domain.Transaction, int64, error) {
	matched := make([]domain.Transaction, 0)
	for _, txn := range f.snapshot() {
		if filter.PartyID != nil && txn.PartyID != *filter.PartyID {
			continue
		}
		if filter.Kind != nil && txn.Kind != *filter.Kind {
			continue
		}
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		if filter.MirrorOf != nil && (txn.MirrorOf == nil || *txn.MirrorOf != *filter.MirrorOf) {
			continue
		}
		matched = append(matched, txn)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].OccurredAt.After(matched[j].OccurredAt) })
	total := int64(len(matched))
	if offset >= len(matched) {
		return []domain.Transaction{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (f *fakeLedgerStore) FindCompletedRefundsByOriginal(ctx context.Context, originalTransactionID string) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0)
	for _, txn := range f.snapshot() {
		if txn.Kind == domain.KindRefund && txn.IsCompleted() &&
			txn.MirrorOf != nil && *txn.MirrorOf == originalTransactionID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) FindCompletedTransactionsUpTo(ctx context.Context, asOf time.Time) ([]domain.Transaction, error) {
	out := make([]domain.Transaction, 0)
	for _, txn := range f.snapshot() {
		if txn.IsCompleted() && !txn.OccurredAt.After(asOf) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.txns[txn.TransactionID]; exists {
		return apperrors.ErrDuplicate
	}
	f.txns[txn.TransactionID] = txn
	f.order = append(f.order, txn.TransactionID)
	return nil
}

func (f *fakeLedgerStore) TransitionStatus(ctx context.Context, transactionID string, next domain.TransactionStatus, updatedBy string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if !txn.CanTransitionTo(next) {
		return apperrors.ErrInvalidTransition
	}
	txn.Status = next
	txn.LastUpdatedBy = updatedBy
	txn.LastUpdatedAt = updatedAt
	f.txns[transactionID] = txn
	return nil
}

func (f *fakeLedgerStore) Begin(ctx context.Context) (pgx.Tx, error)       { return nil, nil }
func (f *fakeLedgerStore) Commit(ctx context.Context, tx pgx.Tx) error    { return nil }
func (f *fakeLedgerStore) Rollback(ctx context.Context, tx pgx.Tx) error  { return nil }

func (f *fakeLedgerStore) FindBookingsByIDs(ctx context.Context, bookingIDs []string) (map[string]domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Booking)
	for _, id := range bookingIDs {
		if b, ok := f.bookings[id]; ok {
			out[id] = b
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) FindRoomsByIDs(ctx context.Context, roomIDs []string) (map[string]domain.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Room)
	for _, id := range roomIDs {
		if r, ok := f.rooms[id]; ok {
			out[id] = r
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) FindHostelsByIDs(ctx context.Context, hostelIDs []string) (map[string]domain.Hostel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]domain.Hostel)
	for _, id := range hostelIDs {
		if h, ok := f.hostels[id]; ok {
			out[id] = h
		}
	}
	return out, nil
}

func (f *fakeLedgerStore) FindHostelsByOwnerID(ctx context.Context, ownerID string) ([]domain.Hostel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Hostel, 0)
	for _, h := range f.hostels {
		if h.OwnerID == ownerID {
			out = append(out, h)
		}
	}
	return out, nil
}

// seedChain installs a full booking -> room -> hostel -> owner chain and
// returns the booking ID.
func (f *fakeLedgerStore) seedChain(bookingID, roomID, hostelID, ownerID, partyID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bookings[bookingID] = domain.Booking{BookingID: bookingID, RoomID: &roomID, PartyID: partyID}
	f.rooms[roomID] = domain.Room{RoomID: roomID, HostelID: &hostelID}
	f.hostels[hostelID] = domain.Hostel{HostelID: hostelID, OwnerID: ownerID, Name: "Hostel " + hostelID}
	return bookingID
}
