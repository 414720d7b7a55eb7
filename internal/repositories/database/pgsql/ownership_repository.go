package pgsql

import (
	"context"

	"github.com/hostelhq/hostel_ledger/internal/apperrors"
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	portsrepo "github.com/hostelhq/hostel_ledger/internal/core/ports/repositories"
	"github.com/hostelhq/hostel_ledger/internal/models"
	"github.com/hostelhq/hostel_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxOwnershipRepository reads the booking/room/hostel reference tables the
// hostel CRUD collaborators own. Missing IDs are absent from batch results,
// never errors; a dangling reference is the resolver's problem to report.
type PgxOwnershipRepository struct {
	BaseRepository
}

// newPgxOwnershipRepository creates a new read-only ownership repository.
func newPgxOwnershipRepository(pool *pgxpool.Pool) portsrepo.OwnershipReader {
	return &PgxOwnershipRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.OwnershipReader = (*PgxOwnershipRepository)(nil)

// FindBookingsByIDs retrieves the bookings that exist among the given IDs.
func (r *PgxOwnershipRepository) FindBookingsByIDs(ctx context.Context, bookingIDs []string) (map[string]domain.Booking, error) {
	out := make(map[string]domain.Booking, len(bookingIDs))
	if len(bookingIDs) == 0 {
		return out, nil
	}

	query := `SELECT booking_id, room_id, party_id FROM bookings WHERE booking_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, bookingIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query bookings", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Booking
		if err := rows.Scan(&m.BookingID, &m.RoomID, &m.PartyID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan booking row", err)
		}
		out[m.BookingID] = mapping.ToDomainBooking(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate booking rows", err)
	}
	return out, nil
}

// FindRoomsByIDs retrieves the rooms that exist among the given IDs.
func (r *PgxOwnershipRepository) FindRoomsByIDs(ctx context.Context, roomIDs []string) (map[string]domain.Room, error) {
	out := make(map[string]domain.Room, len(roomIDs))
	if len(roomIDs) == 0 {
		return out, nil
	}

	query := `SELECT room_id, hostel_id FROM rooms WHERE room_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, roomIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query rooms", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Room
		if err := rows.Scan(&m.RoomID, &m.HostelID); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan room row", err)
		}
		out[m.RoomID] = mapping.ToDomainRoom(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate room rows", err)
	}
	return out, nil
}

// FindHostelsByIDs retrieves the hostels that exist among the given IDs.
func (r *PgxOwnershipRepository) FindHostelsByIDs(ctx context.Context, hostelIDs []string) (map[string]domain.Hostel, error) {
	out := make(map[string]domain.Hostel, len(hostelIDs))
	if len(hostelIDs) == 0 {
		return out, nil
	}

	query := `SELECT hostel_id, owner_id, name FROM hostels WHERE hostel_id = ANY($1);`
	rows, err := r.Pool.Query(ctx, query, hostelIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query hostels", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.Hostel
		if err := rows.Scan(&m.HostelID, &m.OwnerID, &m.Name); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan hostel row", err)
		}
		out[m.HostelID] = mapping.ToDomainHostel(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate hostel rows", err)
	}
	return out, nil
}

// FindHostelsByOwnerID lists the hostels an owner holds.
func (r *PgxOwnershipRepository) FindHostelsByOwnerID(ctx context.Context, ownerID string) ([]domain.Hostel, error) {
	query := `SELECT hostel_id, owner_id, name FROM hostels WHERE owner_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query hostels for owner "+ownerID, err)
	}
	defer rows.Close()

	hostels := []domain.Hostel{}
	for rows.Next() {
		var m models.Hostel
		if err := rows.Scan(&m.HostelID, &m.OwnerID, &m.Name); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan hostel row", err)
		}
		hostels = append(hostels, mapping.ToDomainHostel(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate hostel rows", err)
	}
	return hostels, nil
}
