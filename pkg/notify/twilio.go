package notify

import (
	"context"
	"fmt"

	"careops/pkg/utils"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(cfg utils.SMSConfig) *TwilioSender {
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username:   cfg.AccountSID,
			Password:   cfg.AuthToken,
			AccountSid: cfg.AccountSID,
		}),
		from: cfg.FromNumber,
	}
}

// SendSMS ignores ctx: the Twilio client has no context-aware call.
func (s *TwilioSender) SendSMS(_ context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}
