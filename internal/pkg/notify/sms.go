package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

type TwilioSender struct {
	api  messageCreator
	from string
}

func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{api: client.Api, from: from}
}

func (s *TwilioSender) SendSMS(_ context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	resp, err := s.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}
	if resp.ErrorMessage != nil {
		return fmt.Errorf("twilio send to %s: %s", to, *resp.ErrorMessage)
	}
	return nil
}

// Noop is used when Twilio is not configured.
type Noop struct{}

func (Noop) SendSMS(context.Context, string, string) error { return nil }

func AssignmentMessage(serviceName string, bookedAt string) string {
	return fmt.Sprintf("StyleDeco: you have been assigned to %s (booked %s). Check your projects dashboard.", serviceName, bookedAt)
}
