package types

type CreateBookingRequest struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests,omitempty"`
	Email      string `json:"email,omitempty"`
}

// Affordances tell the UI which actions the booking's status allows.
type Affordances struct {
	CanCopyPIN       bool `json:"can_copy_pin"`
	CanIssueGuestPIN bool `json:"can_issue_guest_pin"`
	CanLeaveFeedback bool `json:"can_leave_feedback"`
	CanCancel        bool `json:"can_cancel"`
}

type BookingView struct {
	ID            string      `json:"id"`
	PropertyID    string      `json:"property_id"`
	PropertyName  string      `json:"property_name,omitempty"`
	CheckIn       string      `json:"check_in"`
	CheckOut      string      `json:"check_out"`
	Guests        int         `json:"guests"`
	State         string      `json:"state"`
	AccessStatus  string      `json:"access_status"`
	Remaining     *Remaining  `json:"remaining,omitempty"`
	Affordances   Affordances `json:"affordances"`
	Rating        int         `json:"rating,omitempty"`
	Feedback      string      `json:"feedback,omitempty"`
	CreatedAt     string      `json:"created_at"`
	PaymentStatus string      `json:"payment_status"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}
