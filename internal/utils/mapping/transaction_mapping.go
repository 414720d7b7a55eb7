package mapping

import (
	"github.com/hostelhq/hostel_ledger/internal/core/domain"
	"github.com/hostelhq/hostel_ledger/internal/models"
)

// ToModelTransaction converts a domain transaction to its database row shape.
func ToModelTransaction(t domain.Transaction) models.Transaction {
	return models.Transaction{
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
		AuditFields: models.AuditFields{
			CreatedAt:     t.CreatedAt,
			CreatedBy:     t.CreatedBy,
			LastUpdatedAt: t.LastUpdatedAt,
			LastUpdatedBy: t.LastUpdatedBy,
		},
	}
}

// ToDomainTransaction converts a database row to the domain shape.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		PartyID:       m.PartyID,
		BookingID:     m.BookingID,
		Amount:        m.Amount,
		CurrencyCode:  m.CurrencyCode,
		OccurredAt:    m.OccurredAt,
		Method:        m.Method,
		Kind:          domain.TransactionKind(m.Kind),
		Status:        domain.TransactionStatus(m.Status),
		MirrorOf:      m.MirrorOf,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// ToDomainBooking converts a booking row to the domain shape.
func ToDomainBooking(m models.Booking) domain.Booking {
	return domain.Booking{BookingID: m.BookingID, RoomID: m.RoomID, PartyID: m.PartyID}
}

// ToDomainRoom converts a room row to the domain shape.
func ToDomainRoom(m models.Room) domain.Room {
	return domain.Room{RoomID: m.RoomID, HostelID: m.HostelID}
}

// ToDomainHostel converts a hostel row to the domain shape.
func ToDomainHostel(m models.Hostel) domain.Hostel {
	return domain.Hostel{HostelID: m.HostelID, OwnerID: m.OwnerID, Name: m.Name}
}
