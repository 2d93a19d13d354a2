package access

import "time"

const (
	// DefaultOfflineGrace is how far before Start an offline device may keep
	// showing the credential.
	DefaultOfflineGrace = 24 * time.Hour

	// ShortOfflineGrace is the narrower grace some surfaces opt into.
	ShortOfflineGrace = 2 * time.Hour
)

// Policy holds the tunables of an evaluation.
type Policy struct {
	// OfflineGrace extends the start of the window when the device is
	// offline. Zero means no extension.
	OfflineGrace time.Duration

	// InclusiveStart classifies now == Start as Active. When false (the
	// default) that instant falls through to Expired, matching the strict
	// comparisons every client has shipped with.
	InclusiveStart bool
}

// DefaultPolicy is used by the package-level Evaluate.
var DefaultPolicy = Policy{OfflineGrace: DefaultOfflineGrace}

// Evaluate runs DefaultPolicy.Evaluate.
func Evaluate(w Window, c Context) Result {
	return DefaultPolicy.Evaluate(w, c)
}

// Evaluate classifies c.Now against w and decides whether the credential is
// revealed. It never fails; a window with Start >= End yields Upcoming or
// Expired and never reveals online.
func (p Policy) Evaluate(w Window, c Context) Result {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}

	res := Result{Status: p.status(w, now)}

	if res.Status == StatusActive {
		res.Remaining = remaining(now, w.End)
	}

	if !c.Offline {
		res.Reveal = res.Status == StatusActive
		return res
	}

	extended := Window{Start: w.Start.Add(-p.OfflineGrace), End: w.End}
	res.Reveal = within(extended, now)
	if res.Reveal && c.LastSync != nil {
		res.Reveal = within(extended, *c.LastSync)
	}
	return res
}

func (p Policy) status(w Window, now time.Time) Status {
	switch {
	case now.After(w.Start) && now.Before(w.End):
		return StatusActive
	case p.InclusiveStart && now.Equal(w.Start) && now.Before(w.End):
		return StatusActive
	case now.Before(w.Start):
		return StatusUpcoming
	default:
		return StatusExpired
	}
}

// within reports whether t lies strictly inside w.
func within(w Window, t time.Time) bool {
	return t.After(w.Start) && t.Before(w.End)
}

func remaining(now, end time.Time) *Remaining {
	d := end.Sub(now)
	return &Remaining{
		Hours:   int(d / time.Hour),
		Minutes: int((d % time.Hour) / time.Minute),
	}
}
