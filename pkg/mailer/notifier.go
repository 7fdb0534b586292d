package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/event"
	mailtpl "github.com/oksasatya/go-ecommerce-api/pkg/mailer/templates"
)

// ErrMalformed marks messages that can never succeed; consumers drop them
// instead of requeueing.
var ErrMalformed = errors.New("malformed order event")

var templateByType = map[event.Type]string{
	event.OrderCreated:       mailtpl.OrderCreated,
	event.OrderCancelled:     mailtpl.OrderCancelled,
	event.OrderStatusChanged: mailtpl.OrderStatusChanged,
}

// OrderNotifier turns order events into customer emails.
type OrderNotifier struct {
	Sender Sender
	Brand  mailtpl.Brand
	Logger *logrus.Logger
}

func NewOrderNotifier(sender Sender, brand mailtpl.Brand, logger *logrus.Logger) *OrderNotifier {
	return &OrderNotifier{Sender: sender, Brand: brand, Logger: logger}
}

// Build renders the email for one event. ok is false when the event type has
// no customer-facing email.
func (n *OrderNotifier) Build(ev event.OrderEvent) (job EmailJob, ok bool, err error) {
	name, known := templateByType[ev.Type]
	if !known {
		return EmailJob{}, false, nil
	}
	if strings.TrimSpace(ev.CustomerEmail) == "" || ev.OrderNumber == "" {
		return EmailJob{}, false, fmt.Errorf("%w: missing recipient or order number", ErrMalformed)
	}
	subject, text, html, err := mailtpl.Render(name, mailtpl.NewOrderEmailData(n.Brand, ev))
	if err != nil {
		return EmailJob{}, false, err
	}
	return EmailJob{To: ev.CustomerEmail, Subject: subject, Text: text, HTML: html, Template: name}, true, nil
}

// Handle decodes body and sends the matching email. Unknown event types are
// acknowledged without sending.
func (n *OrderNotifier) Handle(ctx context.Context, body []byte) error {
	var ev event.OrderEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	job, ok, err := n.Build(ev)
	if err != nil {
		return err
	}
	if !ok {
		n.Logger.WithField("type", ev.Type).Debug("no email for event type")
		return nil
	}
	if err := n.Sender.Send(ctx, job.To, job.Subject, job.Text, job.HTML); err != nil {
		return fmt.Errorf("send %s: %w", job.Template, err)
	}
	n.Logger.WithFields(logrus.Fields{
		"order_number": ev.OrderNumber,
		"template":     job.Template,
	}).Info("order email sent")
	return nil
}
