package notify

import (
	"context"
	"log/slog"
)

type devSender struct {
	log *slog.Logger
}

// NewDevSender returns a sender that logs messages instead of sending them.
func NewDevSender(log *slog.Logger) Sender {
	if log == nil {
		log = slog.Default()
	}
	return &devSender{log: log}
}

func (s *devSender) SendCheckInLink(ctx context.Context, msg CheckInLink) error {
	s.log.InfoContext(ctx, "check-in link (dev sender, not delivered)",
		slog.String("to", msg.To),
		slog.String("hotel", msg.HotelName),
		slog.String("url", msg.URL),
	)
	return nil
}
