package services

import (
	"context"
	"fmt"
	"html"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// CallService places an automated voice call over Twilio. The call speaks the
// short automated-alert marker, not the full alert text.
type CallService struct {
	client *twilio.RestClient
	from   string
}

func NewCallService(accountSID, authToken, from string) *CallService {
	if accountSID == "" || authToken == "" {
		logrus.Warn("Twilio not configured, voice calls will be simulated")
		return &CallService{}
	}

	return &CallService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (cs *CallService) Send(ctx context.Context, job DispatchJob) error {
	if cs.client == nil {
		logrus.Warnf("Twilio not configured, skipping call to %s", job.Recipient)
		return nil
	}

	twiml := fmt.Sprintf("<Response><Say loop=\"2\">%s. This is an automated safety alert from LifeLine.</Say></Response>",
		html.EscapeString(job.Body))

	params := &openapi.CreateCallParams{}
	params.SetTo(job.Recipient)
	params.SetFrom(cs.from)
	params.SetTwiml(twiml)

	resp, err := cs.client.Api.CreateCall(params)
	if err != nil {
		return fmt.Errorf("failed to place call: %w", err)
	}

	if resp.Sid != nil {
		logrus.Infof("Call placed to %s - SID: %s", job.Recipient, *resp.Sid)
	}
	return nil
}
