package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors a row of the transactions table.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	PartyID       string          `db:"party_id"`
	BookingID     *string         `db:"booking_id"`
	Amount        decimal.Decimal `db:"amount"`
	CurrencyCode  string          `db:"currency_code"`
	OccurredAt    time.Time       `db:"occurred_at"`
	Method        string          `db:"method"`
	Kind          string          `db:"kind"`
	Status        string          `db:"status"`
	MirrorOf      *string         `db:"mirror_of"`
	AuditFields
}

// AuditFields holds the audit columns shared by ledger tables.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
	LastUpdatedBy string    `db:"last_updated_by"`
}
