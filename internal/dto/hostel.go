package dto

import "github.com/hostelhq/hostel_ledger/internal/core/domain"

// HostelResponse is the read-only slice of a hostel the ledger exposes for
// the "which hostels are mine" capability.
type HostelResponse struct {
	HostelID string `json:"hostelID"`
	Name     string `json:"name"`
}

// ToHostelResponses converts domain hostels to their wire shape.
func ToHostelResponses(hostels []domain.Hostel) []HostelResponse {
	out := make([]HostelResponse, len(hostels))
	for i, h := range hostels {
		out[i] = HostelResponse{HostelID: h.HostelID, Name: h.Name}
	}
	return out
}
