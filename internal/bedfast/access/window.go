// Package access decides where "now" sits relative to an access window and
// whether the credential for that window may be shown.
//
// Evaluation is pure: nothing is stored between calls, so callers re-run it
// on their own timer (the UI refreshes once a minute) and any number of
// goroutines may evaluate concurrently.
package access

import "time"

// Status is the lifecycle state of an access window.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusActive   Status = "active"
	StatusExpired  Status = "expired"
)

// Window is the interval during which a PIN unlocks a property.
type Window struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether Start is strictly before End. Evaluate does not call
// it; windows built from stored data are checked where they are built.
func (w Window) Valid() bool {
	return w.Start.Before(w.End)
}

// viewingMargin is how long before and after a viewing slot the PIN works.
const viewingMargin = 30 * time.Minute

// ViewingWindow returns the access window for a viewing scheduled at slot.
func ViewingWindow(slot time.Time) Window {
	return Window{
		Start: slot.Add(-viewingMargin),
		End:   slot.Add(viewingMargin),
	}
}

// Context carries the per-call inputs of an evaluation.
type Context struct {
	// Now is the evaluation instant. The zero value means time.Now().
	Now time.Time

	// Offline is set when the device has no connectivity.
	Offline bool

	// LastSync is the last instant the credential was confirmed by a trusted
	// source. Only consulted when Offline is set; nil skips the check.
	LastSync *time.Time
}

// Remaining is the time left in an active window, truncated to whole hours
// and whole minutes.
type Remaining struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// Result is the outcome of one evaluation.
type Result struct {
	Status    Status
	Reveal    bool
	Remaining *Remaining
}
