// Package notify delivers booking and guest-access messages over e-mail and
// SMS.
package notify

import (
	"context"
	"errors"
	"fmt"
)

type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Message is a single outbound notification. Subject is ignored for SMS.
type Message struct {
	Channel Channel
	To      string
	ToName  string
	Subject string
	Body    string
}

var (
	ErrNoRecipient      = errors.New("notify: recipient is required")
	ErrUnsupportedRoute = errors.New("notify: no notifier for channel")
)

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// Multi routes each message to the notifier registered for its channel.
// Channels without a route go to Fallback when it is set.
type Multi struct {
	Routes   map[Channel]Notifier
	Fallback Notifier
}

func (m Multi) Notify(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if n, ok := m.Routes[msg.Channel]; ok && n != nil {
		return n.Notify(ctx, msg)
	}
	if m.Fallback != nil {
		return m.Fallback.Notify(ctx, msg)
	}
	return fmt.Errorf("%w %q", ErrUnsupportedRoute, msg.Channel)
}
