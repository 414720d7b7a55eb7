package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger entry. It is the only source of truth
// for sign derivation; readers never infer the kind from status or method text.
type TransactionKind string

const (
	KindIncome TransactionKind = "INCOME"
	KindRefund TransactionKind = "REFUND"
	KindPayout TransactionKind = "PAYOUT"
)

// TransactionStatus indicates the settlement state of a ledger entry.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
)

// MethodPayout is the distinguished payment channel for withdrawals. Legacy
// data sometimes encodes a withdrawal as an INCOME row tagged with this
// method; readers fold those rows in as deductions, counted exactly once.
const MethodPayout = "payout"

// Transaction is a single immutable ledger entry. Once completed, the only
// permitted mutation is the PENDING -> COMPLETED/FAILED status transition.
type Transaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	PartyID       string            `json:"partyID"`       // Occupant for income, owner for payouts
	BookingID     *string           `json:"bookingID"`     // Optional FK -> booking (income is normally linked, payouts are not)
	Amount        decimal.Decimal   `json:"amount"`        // Non-negative magnitude; sign derives from Kind
	CurrencyCode  string            `json:"currencyCode"`  // Carried, never converted
	OccurredAt    time.Time         `json:"occurredAt"`    // Timestamp of economic effect
	Method        string            `json:"method"`        // Free-form channel tag (cash/bank/card/...) or MethodPayout
	Kind          TransactionKind   `json:"kind"`
	Status        TransactionStatus `json:"status"`
	MirrorOf      *string           `json:"mirrorOf"` // Set only on REFUND rows; references the original INCOME row
	AuditFields
}

// IsCompleted reports whether the entry has settled successfully.
func (t Transaction) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// IsWithdrawalRow reports whether the entry debits available balance: a true
// PAYOUT row, or the legacy encoding of a payout as INCOME with Method ==
// MethodPayout. Both shapes deduct, and a row matches at most one branch so
// it is never double-counted.
func (t Transaction) IsWithdrawalRow() bool {
	if t.Kind == KindPayout {
		return true
	}
	return t.Kind == KindIncome && t.Method == MethodPayout
}

// IsRevenueRow reports whether the entry belongs in the monthly revenue
// rollup: completed, positive income through a real payment channel.
func (t Transaction) IsRevenueRow() bool {
	return t.Kind == KindIncome &&
		t.Status == StatusCompleted &&
		t.Method != MethodPayout &&
		t.Amount.IsPositive()
}

// CanTransitionTo reports whether the status change is one of the two legal
// settlement transitions.
func (t Transaction) CanTransitionTo(next TransactionStatus) bool {
	if t.Status != StatusPending {
		return false
	}
	return next == StatusCompleted || next == StatusFailed
}
