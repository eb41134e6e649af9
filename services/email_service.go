package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sirupsen/logrus"
)

// EmailService sends the alert text over SMTP. Unconfigured SMTP degrades to
// a no-op send, same as the SMS and call transports.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewEmailService(host, port, username, password, from string) *EmailService {
	if username == "" || password == "" {
		logrus.Warn("SMTP credentials not configured, email dispatch will be simulated")
		return &EmailService{}
	}

	return &EmailService{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (es *EmailService) Send(ctx context.Context, job DispatchJob) error {
	if es.username == "" {
		logrus.Warnf("SMTP not configured, skipping email to %s", job.Recipient)
		return nil
	}

	body := job.Body
	if job.HasAttachment {
		body += "\n\nA voice recording from the user is attached to this alert."
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: %s\r\n", es.from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", job.Recipient))
	msg.WriteString("Subject: LifeLine Emergency Alert\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	auth := smtp.PlainAuth("", es.username, es.password, es.host)
	addr := fmt.Sprintf("%s:%s", es.host, es.port)

	if err := smtp.SendMail(addr, auth, es.from, []string{job.Recipient}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logrus.Infof("Email sent to %s", job.Recipient)
	return nil
}
