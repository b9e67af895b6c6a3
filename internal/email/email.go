package email

import (
	"context"

	"github.com/dkrylov/railbooking/internal/kafka"
	"go.uber.org/zap"
)

// Sender is a stand-in for a real mail gateway; it records what would
// have been sent.
type Sender struct {
	logger *zap.Logger
}

func NewSender(logger *zap.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.TicketEvent) error {
	s.logger.Info("notification sent",
		zap.String("event", event.Type),
		zap.String("train", event.TrainNumber),
		zap.Int("seat", event.SeatNumber),
		zap.String("passenger", event.Passenger),
	)
	return nil
}
