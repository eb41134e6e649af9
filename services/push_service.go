package services

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// PushService delivers the local WARNING notification ("please check in")
// to the user's own device over FCM. It is strictly fire-and-forget.
type PushService struct {
	client      *messaging.Client
	deviceToken string
}

func NewPushService(ctx context.Context, credentialsFile, deviceToken string) *PushService {
	if credentialsFile == "" {
		logrus.Warn("Firebase not configured, warning push notifications disabled")
		return &PushService{}
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		logrus.Errorf("Failed to initialize Firebase app: %v", err)
		return &PushService{}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		logrus.Errorf("Failed to initialize Firebase messaging: %v", err)
		return &PushService{}
	}

	return &PushService{
		client:      client,
		deviceToken: deviceToken,
	}
}

// SendWarning pushes the check-in reminder. Failures are logged and dropped.
func (ps *PushService) SendWarning(ctx context.Context, title, body string) {
	if ps.client == nil || ps.deviceToken == "" {
		logrus.Debug("Push not configured, skipping warning notification")
		return
	}

	_, err := ps.client.Send(ctx, &messaging.Message{
		Token: ps.deviceToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	})
	if err != nil {
		logrus.Warnf("Failed to send warning push: %v", err)
		return
	}

	logrus.Info("Warning push notification sent")
}
