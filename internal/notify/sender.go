package notify

import (
	"context"
	"errors"
)

// Config holds delivery settings.
type Config struct {
	PostmarkServerToken string `env:"POSTMARK_SERVER_TOKEN"`
	SenderEmail         string `env:"EMAIL_SENDER" envDefault:"stay@innkeep.app"`
}

// ErrSendFailed wraps provider failures.
var ErrSendFailed = errors.New("notify: failed to send check-in link")

// CheckInLink is the message handed to a sender.
type CheckInLink struct {
	To        string
	GuestName string
	HotelName string
	URL       string
}

// Sender delivers check-in links.
type Sender interface {
	SendCheckInLink(ctx context.Context, msg CheckInLink) error
}
