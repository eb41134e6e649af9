package services

import (
	"time"

	"lifeline/models"

	"github.com/sirupsen/logrus"
)

// FeedbackKind mirrors the haptic vocabulary of the device collaborator.
type FeedbackKind string

const (
	FeedbackTap     FeedbackKind = "tap"
	FeedbackButton  FeedbackKind = "button"
	FeedbackSuccess FeedbackKind = "success"
	FeedbackError   FeedbackKind = "error"
	FeedbackWarning FeedbackKind = "warning"
	FeedbackSOS     FeedbackKind = "sos"
)

// FeedbackService relays haptic signals to presentation clients. Signals are
// fire-and-forget and never fail the caller.
type FeedbackService struct {
	broadcaster Broadcaster
}

func NewFeedbackService() *FeedbackService {
	return &FeedbackService{}
}

func (fs *FeedbackService) SetBroadcaster(b Broadcaster) {
	fs.broadcaster = b
}

func (fs *FeedbackService) Signal(kind FeedbackKind) {
	logrus.Debugf("Haptic signal: %s", kind)

	if fs.broadcaster == nil {
		return
	}
	fs.broadcaster.Broadcast(models.WSMessage{
		Type:      models.WSTypeFeedback,
		Data:      map[string]string{"kind": string(kind)},
		Timestamp: time.Now(),
	})
}
