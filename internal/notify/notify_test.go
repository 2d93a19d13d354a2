package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	got []Message
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, msg Message) error {
	r.got = append(r.got, msg)
	return r.err
}

func TestMulti_RoutesByChannel(t *testing.T) {
	email, sms := &recordingNotifier{}, &recordingNotifier{}
	m := Multi{Routes: map[Channel]Notifier{ChannelEmail: email, ChannelSMS: sms}}

	ctx := context.Background()
	if err := m.Notify(ctx, Message{Channel: ChannelEmail, To: "a@example.com"}); err != nil {
		t.Fatalf("email: %v", err)
	}
	if err := m.Notify(ctx, Message{Channel: ChannelSMS, To: "+15550100"}); err != nil {
		t.Fatalf("sms: %v", err)
	}

	if len(email.got) != 1 || email.got[0].To != "a@example.com" {
		t.Errorf("unexpected email deliveries %+v", email.got)
	}
	if len(sms.got) != 1 || sms.got[0].To != "+15550100" {
		t.Errorf("unexpected sms deliveries %+v", sms.got)
	}
}

func TestMulti_FallbackAndMissingRoute(t *testing.T) {
	fallback := &recordingNotifier{}
	m := Multi{Routes: map[Channel]Notifier{}, Fallback: fallback}

	if err := m.Notify(context.Background(), Message{Channel: ChannelSMS, To: "+15550100"}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if len(fallback.got) != 1 {
		t.Fatalf("expected fallback delivery, got %d", len(fallback.got))
	}

	err := Multi{}.Notify(context.Background(), Message{Channel: ChannelSMS, To: "+15550100"})
	if !errors.Is(err, ErrUnsupportedRoute) {
		t.Errorf("expected ErrUnsupportedRoute, got %v", err)
	}
}

func TestMulti_RequiresRecipient(t *testing.T) {
	err := Multi{Fallback: &recordingNotifier{}}.Notify(context.Background(), Message{Channel: ChannelEmail})
	if !errors.Is(err, ErrNoRecipient) {
		t.Errorf("expected ErrNoRecipient, got %v", err)
	}
}

func TestLogNotifier_LogsMessage(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	err := n.Notify(context.Background(), Message{Channel: ChannelEmail, To: "a@example.com", Subject: "Booked"})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["to"]; got != "a@example.com" {
		t.Errorf("expected to=a@example.com, got %v", got)
	}
}

func TestNewSendGridNotifier_RequiresCredentials(t *testing.T) {
	if _, err := NewSendGridNotifier(SendGridConfig{FromEmail: "x@example.com"}, nil); err == nil {
		t.Error("expected error without api key")
	}
	if _, err := NewSendGridNotifier(SendGridConfig{APIKey: "SG.key", FromEmail: "x@example.com"}, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildEmail(t *testing.T) {
	from := mail.NewEmail("BedFast", "noreply@example.com")
	m := buildEmail(from, Message{To: "guest@example.com", ToName: "Guest", Subject: "Your stay", Body: "PIN 4821"})

	if m.Subject != "Your stay" || m.From.Address != "noreply@example.com" {
		t.Errorf("unexpected envelope %+v", m)
	}
	if len(m.Personalizations) != 1 || m.Personalizations[0].To[0].Address != "guest@example.com" {
		t.Errorf("unexpected recipients %+v", m.Personalizations)
	}
}

func TestNewTwilioNotifier_RequiresCredentials(t *testing.T) {
	if _, err := NewTwilioNotifier(TwilioConfig{AccountSID: "AC1"}, nil); err == nil {
		t.Error("expected error with partial credentials")
	}

	p := buildSMSParams("+15550000", Message{To: "+15550100", Body: "hi"})
	if *p.To != "+15550100" || *p.From != "+15550000" || *p.Body != "hi" {
		t.Errorf("unexpected params to=%s from=%s body=%s", *p.To, *p.From, *p.Body)
	}
}
