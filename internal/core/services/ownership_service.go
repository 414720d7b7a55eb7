package services

import (
	"context"
	"log/slog"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	portssvc "github.com/hostelhq/hostel_ledger/internal/core/ports/services"
)

// ownershipService attributes ledger entries to hostel owners by walking the
// booking -> room -> hostel -> owner chain held by the CRUD collaborators.
type ownershipService struct {
	BaseService
	ownershipRepo portsrepo.OwnershipReader
}

// NewOwnershipService creates a new OwnershipService.
func NewOwnershipService(ownershipRepo portsrepo.OwnershipReader) portssvc.OwnershipSvcFacade {
	return &ownershipService{ownershipRepo: ownershipRepo}
}

var _ portssvc.OwnershipSvcFacade = (*ownershipService)(nil)

// ResolveOwner maps a single transaction to its owner. It delegates to the
// batch form so both paths share one set of semantics.
func (s *ownershipService) ResolveOwner(ctx context.Context, txn domain.Transaction) (domain.Attribution, error) {
	attrs, err := s.ResolveOwnerBatch(ctx, []domain.Transaction{txn})
	if err != nil {
		return domain.Unattributed(), err
	}
	return attrs[txn.TransactionID], nil
}

// ResolveOwnerBatch attributes each transaction in one pass: three bulk
// lookups instead of a chain walk per entry. A missing link anywhere in a
// chain degrades that entry to unattributed; it never fails the batch.
func (s *ownershipService) ResolveOwnerBatch(ctx context.Context, txns []domain.Transaction) (map[string]domain.Attribution, error) {
	attrs := make(map[string]domain.Attribution, len(txns))

	bookingIDSet := make(map[string]struct{})
	for _, txn := range txns {
		// Payout entries carry the owner directly; no chain to walk.
		if txn.Kind == domain.KindPayout {
			attrs[txn.TransactionID] = domain.AttributedTo(txn.PartyID)
			continue
		}
		if txn.BookingID == nil {
			attrs[txn.TransactionID] = domain.Unattributed()
			continue
		}
		bookingIDSet[*txn.BookingID] = struct{}{}
	}

	if len(bookingIDSet) == 0 {
		return attrs, nil
	}

	bookings, err := s.ownershipRepo.FindBookingsByIDs(ctx, keys(bookingIDSet))
	if err != nil {
		return nil, err
	}

	roomIDSet := make(map[string]struct{})
	for _, b := range bookings {
		if b.RoomID != nil {
			roomIDSet[*b.RoomID] = struct{}{}
		}
	}
	rooms, err := s.ownershipRepo.FindRoomsByIDs(ctx, keys(roomIDSet))
	if err != nil {
		return nil, err
	}

	hostelIDSet := make(map[string]struct{})
	for _, r := range rooms {
		if r.HostelID != nil {
			hostelIDSet[*r.HostelID] = struct{}{}
		}
	}
	hostels, err := s.ownershipRepo.FindHostelsByIDs(ctx, keys(hostelIDSet))
	if err != nil {
		return nil, err
	}

	for _, txn := range txns {
		if _, done := attrs[txn.TransactionID]; done {
			continue
		}
		attrs[txn.TransactionID] = s.walkChain(ctx, txn, bookings, rooms, hostels)
	}
	return attrs, nil
}

// walkChain follows one transaction's references through the prefetched
// maps, short-circuiting to unattributed on the first missing link.
func (s *ownershipService) walkChain(
	ctx context.Context,
	txn domain.Transaction,
	bookings map[string]domain.Booking,
	rooms map[string]domain.Room,
	hostels map[string]domain.Hostel,
) domain.Attribution {
	booking, ok := bookings[*txn.BookingID]
	if !ok {
		s.logBrokenChain(ctx, txn, "booking", *txn.BookingID)
		return domain.Unattributed()
	}
	if booking.RoomID == nil {
		return domain.Unattributed()
	}
	room, ok := rooms[*booking.RoomID]
	if !ok {
		s.logBrokenChain(ctx, txn, "room", *booking.RoomID)
		return domain.Unattributed()
	}
	if room.HostelID == nil {
		return domain.Unattributed()
	}
	hostel, ok := hostels[*room.HostelID]
	if !ok {
		s.logBrokenChain(ctx, txn, "hostel", *room.HostelID)
		return domain.Unattributed()
	}
	return domain.AttributedTo(hostel.OwnerID)
}

// logBrokenChain records a dangling reference at low severity. A broken
// chain is an expected condition, not a fault.
func (s *ownershipService) logBrokenChain(ctx context.Context, txn domain.Transaction, link, refID string) {
	s.LogDebug(ctx, "Ownership chain broken, transaction left unattributed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("missing_link", link),
		slog.String("ref_id", refID))
}

// HostelsOwnedBy lists the hostels held by an owner.
func (s *ownershipService) HostelsOwnedBy(ctx context.Context, ownerID string) ([]domain.Hostel, error) {
	return s.ownershipRepo.FindHostelsByOwnerID(ctx, ownerID)
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
