package repositories

import (
	"context"

	"github.com/hostelhq/hostel_ledger/internal/core/domain"
)

// OwnershipReader exposes the booking/room/hostel reference data owned by the
// hostel CRUD collaborators. All methods are read-only; the ledger never
// writes these tables. Batch lookups return only the rows that exist —
// missing IDs are simply absent from the result map, never an error.
type OwnershipReader interface {
	FindBookingsByIDs(ctx context.Context, bookingIDs []string) (map[string]domain.Booking, error)
	FindRoomsByIDs(ctx context.Context, roomIDs []string) (map[string]domain.Room, error)
	FindHostelsByIDs(ctx context.Context, hostelIDs []string) (map[string]domain.Hostel, error)

	// FindHostelsByOwnerID lists the hostels an owner holds, for the
	// server-side "which hostels are mine" capability.
	FindHostelsByOwnerID(ctx context.Context, ownerID string) ([]domain.Hostel, error)
}
