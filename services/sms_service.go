package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSService sends the alert text over Twilio SMS. When Twilio is not
// configured it degrades to a no-op send so dispatch still completes.
type SMSService struct {
	client *twilio.RestClient
	from   string
}

func NewSMSService(accountSID, authToken, from string) *SMSService {
	if accountSID == "" || authToken == "" {
		logrus.Warn("Twilio not configured, SMS dispatch will be simulated")
		return &SMSService{}
	}

	return &SMSService{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
	}
}

func (ss *SMSService) Send(ctx context.Context, job DispatchJob) error {
	if ss.client == nil {
		logrus.Warnf("Twilio not configured, skipping SMS send to %s", job.Recipient)
		return nil
	}

	body := job.Body
	if job.HasAttachment {
		body += " (Voice recording attached)"
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(job.Recipient)
	params.SetFrom(ss.from)
	params.SetBody(body)

	resp, err := ss.client.Api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}

	if resp.Sid != nil {
		logrus.Infof("SMS sent to %s - SID: %s", job.Recipient, *resp.Sid)
	}
	return nil
}
