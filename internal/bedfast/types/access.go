package types

type Remaining struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// EvaluateRequest asks for a stateless evaluation of a window the caller
// already holds.
type EvaluateRequest struct {
	Start    string `json:"start"`
	End      string `json:"end"`
	Now      string `json:"now,omitempty"`
	Offline  bool   `json:"offline,omitempty"`
	LastSync string `json:"last_sync,omitempty"`
}

type EvaluateResponse struct {
	Status     string     `json:"status"`
	Reveal     bool       `json:"reveal"`
	Remaining  *Remaining `json:"remaining,omitempty"`
	ServerTime string     `json:"server_time"`
}

// CredentialView is what a booking or viewing owner sees on the PIN screen.
// PIN is empty unless Reveal is set.
type CredentialView struct {
	Reveal       bool       `json:"reveal"`
	PIN          string     `json:"pin,omitempty"`
	AccessStatus string     `json:"access_status"`
	Remaining    *Remaining `json:"remaining,omitempty"`
	ValidFrom    string     `json:"valid_from"`
	ValidUntil   string     `json:"valid_until"`
	LastSync     string     `json:"last_sync,omitempty"`
	ServerTime   string     `json:"server_time"`
}

// VerifyRequest is sent by a lock when a PIN is keyed in.
type VerifyRequest struct {
	PropertyID  string `json:"property_id"`
	PIN         string `json:"pin"`
	RequestedAt string `json:"requested_at,omitempty"`
}

type VerifyResponse struct {
	Granted    bool   `json:"granted"`
	Reason     string `json:"reason"`
	PropertyID string `json:"property_id"`
	ServerTime string `json:"server_time"`
}
