package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSvcFacade computes owner balances on demand from the transaction
// set. There is no persisted running total to go stale.
type BalanceSvcFacade interface {
	// AvailableBalance returns income minus payouts minus refunds
	// attributable to the owner, over COMPLETED entries with
	// OccurredAt <= asOf.
	AvailableBalance(ctx context.Context, ownerID string, asOf time.Time) (decimal.Decimal, error)
}
