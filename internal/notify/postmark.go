package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkSender struct {
	client *postmark.Client
	from   string
}

// NewPostmarkSender creates a Postmark-backed sender.
func NewPostmarkSender(cfg Config) (Sender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, errors.New("notify: postmark server token is required")
	}
	if cfg.SenderEmail == "" {
		return nil, errors.New("notify: sender email is required")
	}
	return &postmarkSender{
		client: postmark.NewClient(cfg.PostmarkServerToken, ""),
		from:   cfg.SenderEmail,
	}, nil
}

func (s *postmarkSender) SendCheckInLink(ctx context.Context, msg CheckInLink) error {
	email := postmark.Email{
		From:    s.from,
		To:      msg.To,
		Subject: fmt.Sprintf("Your check-in link for %s", msg.HotelName),
		TextBody: fmt.Sprintf(
			"Hi %s,\n\nYou can check in to %s online using this link:\n\n%s\n\nSee you soon!",
			msg.GuestName, msg.HotelName, msg.URL,
		),
		MessageStream: "outbound",
	}

	res, err := s.client.SendEmail(ctx, email)
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if res.ErrorCode != 0 {
		return fmt.Errorf("%w: postmark error %d: %s", ErrSendFailed, res.ErrorCode, res.Message)
	}
	return nil
}
