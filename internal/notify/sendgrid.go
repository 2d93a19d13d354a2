package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"
)

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridNotifier sends e-mail through the SendGrid v3 API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   *mail.Email
	log    *zap.Logger
}

func NewSendGridNotifier(cfg SendGridConfig, log *zap.Logger) (*SendGridNotifier, error) {
	if cfg.APIKey == "" || cfg.FromEmail == "" {
		return nil, errors.New("sendgrid: api key and from address are required")
	}
	if cfg.FromName == "" {
		cfg.FromName = "BedFast"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(cfg.APIKey),
		from:   mail.NewEmail(cfg.FromName, cfg.FromEmail),
		log:    log.Named("sendgrid"),
	}, nil
}

func (n *SendGridNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}

	resp, err := n.client.SendWithContext(ctx, buildEmail(n.from, msg))
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}

	n.log.Debug("email sent", zap.String("to", msg.To), zap.Int("status", resp.StatusCode))
	return nil
}

func buildEmail(from *mail.Email, msg Message) *mail.SGMailV3 {
	to := mail.NewEmail(msg.ToName, msg.To)
	return mail.NewSingleEmail(from, msg.Subject, to, msg.Body, "")
}
