package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// TwilioNotifier sends SMS through the Twilio REST API.
type TwilioNotifier struct {
	client *twilio.RestClient
	from   string
	log    *zap.Logger
}

func NewTwilioNotifier(cfg TwilioConfig, log *zap.Logger) (*TwilioNotifier, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.FromNumber == "" {
		return nil, errors.New("twilio: account sid, auth token and from number are required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   cfg.AccountSID,
		Password:   cfg.AuthToken,
		AccountSid: cfg.AccountSID,
	})
	return &TwilioNotifier{client: client, from: cfg.FromNumber, log: log.Named("twilio")}, nil
}

// Notify sends msg.Body to msg.To. The Twilio client has no context support,
// so ctx is only checked before the call.
func (n *TwilioNotifier) Notify(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrNoRecipient
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !strings.HasPrefix(msg.To, "+") {
		n.log.Warn("destination is not E.164", zap.String("to", msg.To))
	}

	resp, err := n.client.Api.CreateMessage(buildSMSParams(n.from, msg))
	if err != nil {
		return fmt.Errorf("twilio send: %w", err)
	}

	if resp != nil && resp.Sid != nil {
		n.log.Debug("sms sent", zap.String("to", msg.To), zap.String("sid", *resp.Sid))
	}
	return nil
}

func buildSMSParams(from string, msg Message) *openapi.CreateMessageParams {
	params := &openapi.CreateMessageParams{}
	params.SetTo(msg.To)
	params.SetFrom(from)
	params.SetBody(msg.Body)
	return params
}
