package models

// Booking, Room and Hostel mirror the reference tables owned by the hostel
// CRUD collaborators. The ledger reads them, never writes them.

type Booking struct {
	BookingID string  `db:"booking_id"`
	RoomID    *string `db:"room_id"`
	PartyID   string  `db:"party_id"`
}

type Room struct {
	RoomID   string  `db:"room_id"`
	HostelID *string `db:"hostel_id"`
}

type Hostel struct {
	HostelID string `db:"hostel_id"`
	OwnerID  string `db:"owner_id"`
	Name     string `db:"name"`
}
