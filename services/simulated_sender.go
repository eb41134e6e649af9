package services

import (
	"context"

	"lifeline/models"

	"github.com/sirupsen/logrus"
)

// SimulatedSender is the default transport: it delivers nothing, logs the
// attempt and always reports success. Carrier delay is simulated by the
// dispatch engine itself, so attempts still take bounded random latency and
// reach a terminal sent outcome without real transports configured.
type SimulatedSender struct {
	channel models.Channel
}

func NewSimulatedSender(channel models.Channel) *SimulatedSender {
	return &SimulatedSender{channel: channel}
}

func (s *SimulatedSender) Send(ctx context.Context, job DispatchJob) error {
	logrus.Debugf("Simulated %s delivery to %s", job.Channel, job.Recipient)
	return nil
}
