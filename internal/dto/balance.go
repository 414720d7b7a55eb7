package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceResponse is an owner's available balance at a point in time.
type BalanceResponse struct {
	OwnerID   string          `json:"ownerID"`
	AsOf      time.Time       `json:"asOf"`
	Available decimal.Decimal `json:"available"`
}
