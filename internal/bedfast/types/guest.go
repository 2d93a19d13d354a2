package types

type IssueGuestPINRequest struct {
	GuestName  string `json:"guest_name"`
	GuestPhone string `json:"guest_phone,omitempty"`
	ValidFrom  string `json:"valid_from,omitempty"`
	ValidUntil string `json:"valid_until,omitempty"`
}

// GuestPINView describes a guest PIN. PIN is only set in the response to
// the request that issued it; it is not stored in clear.
type GuestPINView struct {
	ID           string `json:"id"`
	BookingID    string `json:"booking_id"`
	GuestName    string `json:"guest_name"`
	PIN          string `json:"pin,omitempty"`
	ValidFrom    string `json:"valid_from"`
	ValidUntil   string `json:"valid_until"`
	AccessStatus string `json:"access_status"`
	Revoked      bool   `json:"revoked"`
	CreatedAt    string `json:"created_at"`
}

type ScheduleViewingRequest struct {
	PropertyID string `json:"property_id"`
	Slot       string `json:"slot"`
	Note       string `json:"note,omitempty"`
}

type ViewingView struct {
	ID           string     `json:"id"`
	PropertyID   string     `json:"property_id"`
	Slot         string     `json:"slot"`
	Note         string     `json:"note,omitempty"`
	ValidFrom    string     `json:"valid_from"`
	ValidUntil   string     `json:"valid_until"`
	AccessStatus string     `json:"access_status"`
	Remaining    *Remaining `json:"remaining,omitempty"`
	CreatedAt    string     `json:"created_at"`
}
