package domain

import "time"

// AuditFields holds standard audit information for ledger entities. For
// transactions the LastUpdated pair only ever moves on a settlement
// confirmation; everything else is append-only.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"` // Party/user reference
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}
