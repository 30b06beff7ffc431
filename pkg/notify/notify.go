// Package notify delivers booking confirmations and reminders over email
// (SendGrid) and SMS (Twilio). Channels without credentials are skipped.
package notify

import (
	"context"
	"errors"
	"fmt"

	"careops/pkg/metrics"
	"careops/pkg/utils"

	"go.uber.org/zap"
)

var ErrNoRecipient = errors.New("contact has no email or phone")

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Message struct {
	ToName     string
	ToEmail    string
	ToPhone    string
	Subject    string
	Body       string
	Attachment *Attachment
}

type EmailSender interface {
	SendEmail(ctx context.Context, msg Message) error
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// Sender is what the booking flows and the reminder job depend on.
type Sender interface {
	Send(ctx context.Context, kind string, msg Message) error
}

type Notifier struct {
	email EmailSender
	sms   SMSSender
	log   *zap.Logger
}

// New builds a Notifier with whichever channels are configured.
func New(config *utils.Config, log *zap.Logger) *Notifier {
	var email EmailSender
	if config.Email.SendGridAPIKey != "" && config.Email.From != "" {
		email = NewSendGridSender(config.Email)
	}
	var sms SMSSender
	if config.SMS.AccountSID != "" && config.SMS.AuthToken != "" && config.SMS.FromNumber != "" {
		sms = NewTwilioSender(config.SMS)
	}
	return NewNotifier(email, sms, log)
}

func NewNotifier(email EmailSender, sms SMSSender, log *zap.Logger) *Notifier {
	n := &Notifier{
		email: email,
		sms:   sms,
		log:   log.With(zap.String("component", "notify")),
	}
	n.log.Info("Notifier ready",
		zap.Bool("email", email != nil),
		zap.Bool("sms", sms != nil),
	)
	return n
}

// Send fans msg out to every configured channel the contact can receive
// on. It returns the joined channel errors; a channel failure never stops
// the other channel.
func (n *Notifier) Send(ctx context.Context, kind string, msg Message) error {
	attempted := false
	var errs []error

	if n.email != nil && msg.ToEmail != "" {
		attempted = true
		if err := n.email.SendEmail(ctx, msg); err != nil {
			metrics.RecordNotification(kind, "email", "failed")
			errs = append(errs, fmt.Errorf("email to %s: %w", msg.ToEmail, err))
		} else {
			metrics.RecordNotification(kind, "email", "sent")
		}
	}

	if n.sms != nil && msg.ToPhone != "" {
		attempted = true
		if err := n.sms.SendSMS(ctx, msg.ToPhone, msg.Body); err != nil {
			metrics.RecordNotification(kind, "sms", "failed")
			errs = append(errs, fmt.Errorf("sms to %s: %w", msg.ToPhone, err))
		} else {
			metrics.RecordNotification(kind, "sms", "sent")
		}
	}

	if !attempted {
		if msg.ToEmail == "" && msg.ToPhone == "" {
			return ErrNoRecipient
		}
		n.log.Debug("No channel configured for recipient", zap.String("kind", kind))
		return nil
	}

	return errors.Join(errs...)
}
