package services

import (
	"context"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
)

// OwnershipSvcFacade attributes ledger entries to hostel owners by walking
// the booking -> room -> hostel -> owner reference chain.
type OwnershipSvcFacade interface {
	// ResolveOwner maps one transaction to its owning hostel-owner. A broken
	// or absent chain yields an unattributed outcome, never an error.
	ResolveOwner(ctx context.Context, txn domain.Transaction) (domain.Attribution, error)

	// ResolveOwnerBatch is the bulk form, producing identical results to
	// calling ResolveOwner per item.
	ResolveOwnerBatch(ctx context.Context, txns []domain.Transaction) (map[string]domain.Attribution, error)

	// HostelsOwnedBy lists the hostels held by an owner.
	HostelsOwnedBy(ctx context.Context, ownerID string) ([]domain.Hostel, error)
}
