package domain

// The ownership chain is read-only reference data owned by the hostel CRUD
// collaborators: Owner <- Hostel <- Room <- Booking <- Transaction. Any link
// may be absent; resolution degrades to unattributed rather than failing.

// Booking is the slice of a booking record the ledger needs to walk the chain.
type Booking struct {
	BookingID string  `json:"bookingID"`
	RoomID    *string `json:"roomID"`
	PartyID   string  `json:"partyID"` // The occupant who booked
}

// Room links a booking to its hostel.
type Room struct {
	RoomID   string  `json:"roomID"`
	HostelID *string `json:"hostelID"`
}

// Hostel links a room to its owner.
type Hostel struct {
	HostelID string `json:"hostelID"`
	OwnerID  string `json:"ownerID"`
	Name     string `json:"name"`
}

// Attribution is the tagged outcome of resolving a transaction to an owner.
// A broken chain is a normal condition, not an error.
type Attribution struct {
	OwnerID    string `json:"ownerID,omitempty"`
	Attributed bool   `json:"attributed"`
}

// AttributedTo tags a resolved owner.
func AttributedTo(ownerID string) Attribution {
	return Attribution{OwnerID: ownerID, Attributed: true}
}

// Unattributed is the outcome when any link in the chain is missing.
func Unattributed() Attribution {
	return Attribution{}
}
