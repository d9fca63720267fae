package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fintrack/bank-import/internal/logging"
	"fintrack/bank-import/internal/models"

	"github.com/mailgun/mailgun-go/v4"
)

const mailgunTimeout = 20 * time.Second

// MailgunConfig holds the Mailgun account settings.
type MailgunConfig struct {
	Domain    string
	APIKey    string
	Sender    string
	Recipient string
}

// MailgunNotifier emails notifications through Mailgun.
type MailgunNotifier struct {
	mg        mailgun.Mailgun
	sender    string
	recipient string
	logger    logging.Logger
}

// NewMailgunNotifier creates a Mailgun notifier. All config fields are required.
func NewMailgunNotifier(cfg MailgunConfig, logger logging.Logger) (*MailgunNotifier, error) {
	if cfg.Domain == "" || cfg.APIKey == "" || cfg.Sender == "" || cfg.Recipient == "" {
		return nil, errors.New("mailgun domain, api key, sender and recipient are required")
	}
	return newMailgunNotifier(mailgun.NewMailgun(cfg.Domain, cfg.APIKey), cfg, logger), nil
}

func newMailgunNotifier(mg mailgun.Mailgun, cfg MailgunConfig, logger logging.Logger) *MailgunNotifier {
	return &MailgunNotifier{mg: mg, sender: cfg.Sender, recipient: cfg.Recipient, logger: logging.OrDefault(logger)}
}

// Notify sends n as a plain-text email.
func (m *MailgunNotifier) Notify(ctx context.Context, n models.Notification) error {
	message := m.mg.NewMessage(m.sender, n.Title, n.Body, m.recipient)
	message.AddTag(n.Kind)

	ctx, cancel := context.WithTimeout(ctx, mailgunTimeout)
	defer cancel()

	resp, id, err := m.mg.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("mailgun send failed: %w (response: %s)", err, resp)
	}
	m.logger.Debug("Notification email sent",
		logging.Field{Key: logging.FieldUser, Value: n.UserID},
		logging.Field{Key: "kind", Value: n.Kind},
		logging.Field{Key: "mailgun_id", Value: id})
	return nil
}
