package service

import "errors"

var (
	ErrInvalidWindow      = errors.New("start must be a valid instant before end")
	ErrWindowInPast       = errors.New("window starts in the past")
	ErrInvalidGuests      = errors.New("guests must be at least 1")
	ErrPropertyNotFound   = errors.New("property not found")
	ErrBookingNotFound    = errors.New("booking not found")
	ErrViewingNotFound    = errors.New("viewing not found")
	ErrGuestPINNotFound   = errors.New("guest pin not found")
	ErrNotCancellable     = errors.New("only upcoming bookings can be cancelled")
	ErrFeedbackNotAllowed = errors.New("feedback is only accepted once, after check-out")
	ErrGuestAccessClosed  = errors.New("guest access can no longer be issued for this booking")
	ErrGuestNameRequired  = errors.New("guest_name is required")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")
	ErrInvalidVerify      = errors.New("property_id and pin are required")
	ErrForbidden          = errors.New("not allowed for this user")
)
