package dto

import (
	"time"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateIncomeRequest records a payment. Amount is a raw literal — the
// handler boundary accepts whatever the payment UI sends ("18000",
// "LKR 1,200.00") and the amount normalizer canonicalizes it.
type CreateIncomeRequest struct {
	PayerID      string     `json:"payerID" binding:"required"`
	BookingID    *string    `json:"bookingID"`
	Amount       string     `json:"amount" binding:"required"`
	CurrencyCode string     `json:"currencyCode" binding:"required,len=3"`
	Method       string     `json:"method" binding:"required"`
	OccurredAt   *time.Time `json:"occurredAt"`
	// Completed marks the entry settled synchronously (cash at the desk).
	Completed bool `json:"completed"`
}

// RefundRequest asks for a (partial) reversal of an income transaction.
type RefundRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required"`
}

// PayoutRequest asks for an owner withdrawal.
type PayoutRequest struct {
	OwnerID      string `json:"ownerID" binding:"required"`
	Amount       string `json:"amount" binding:"required"`
	CurrencyCode string `json:"currencyCode" binding:"required,len=3"`
	Method       string `json:"method"`
}

// SettlementRequest confirms the outcome of a pending transaction.
type SettlementRequest struct {
	Outcome string `json:"outcome" binding:"required,oneof=completed failed"`
}

// ListTransactionsRequest carries the listing filters as query parameters.
type ListTransactionsRequest struct {
	PartyID   string `form:"partyID"`
	BookingID string `form:"bookingID"`
	MirrorOf  string `form:"mirrorOf"`
	Kind      string `form:"kind" binding:"omitempty,oneof=INCOME REFUND PAYOUT"`
	Status    string `form:"status" binding:"omitempty,oneof=PENDING COMPLETED FAILED"`
	Method    string `form:"method"`
	From      string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page      int    `form:"page"`
	PageSize  int    `form:"pageSize"`
}

// TransactionResponse is the wire shape of a ledger entry.
type TransactionResponse struct {
	TransactionID string          `json:"transactionID"`
	PartyID       string          `json:"partyID"`
	BookingID     *string         `json:"bookingID,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	CurrencyCode  string          `json:"currencyCode"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Method        string          `json:"method"`
	Kind          string          `json:"kind"`
	Status        string          `json:"status"`
	MirrorOf      *string         `json:"mirrorOf,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ListTransactionsResponse is one page of ledger entries plus the total count.
type ListTransactionsResponse struct {
	Items    []TransactionResponse `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"pageSize"`
}

// ToTransactionResponse converts a domain transaction to its wire shape.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		PartyID:       t.PartyID,
		BookingID:     t.BookingID,
		Amount:        t.Amount,
		CurrencyCode:  t.CurrencyCode,
		OccurredAt:    t.OccurredAt,
		Method:        t.Method,
		Kind:          string(t.Kind),
		Status:        string(t.Status),
		MirrorOf:      t.MirrorOf,
		CreatedAt:     t.CreatedAt,
	}
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(items []domain.Transaction, total int64, page, pageSize int) ListTransactionsResponse {
	resp := ListTransactionsResponse{
		Items:    make([]TransactionResponse, len(items)),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}
	for i, t := range items {
		resp.Items[i] = ToTransactionResponse(t)
	}
	return resp
}
