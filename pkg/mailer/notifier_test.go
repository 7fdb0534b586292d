package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/event"
	"github.com/oksasatya/go-ecommerce-api/pkg/helpers"
	mailtpl "github.com/oksasatya/go-ecommerce-api/pkg/mailer/templates"
)

type senderMock struct{ mock.Mock }

func (m *senderMock) Send(ctx context.Context, to, subject, text, html string) error {
	return m.Called(ctx, to, subject, text, html).Error(0)
}

func newNotifier(s Sender) *OrderNotifier {
	brand := mailtpl.Brand{
		CompanyName: "JEMI",
		AppName:     "jemi-api",
		SupportURL:  "https://jemi.ng/support",
		OrdersURL:   "https://jemi.ng/account/orders",
		Currency:    "₦",
		Location:    time.UTC,
	}
	return NewOrderNotifier(s, brand, helpers.NewNopLogger())
}

func sampleEvent(typ event.Type) event.OrderEvent {
	return event.OrderEvent{
		Type:          typ,
		OrderID:       "7d0c54c6-2f0e-4b57-9f43-3c1b7a3e0d21",
		OrderNumber:   "JM20261015A1B2C3",
		CustomerName:  "Ada Obi",
		CustomerEmail: "ada@example.com",
		Status:        entity.OrderPending,
		Total:         5000000,
		Lines: []event.OrderLine{
			{Name: "Ankara Wrap Dress", Quantity: 2, UnitPrice: 2500000, Subtotal: 5000000},
		},
		OccurredAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	}
}

func body(t *testing.T, ev event.OrderEvent) []byte {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return b
}

func TestBuild_OrderCreated(t *testing.T) {
	job, ok, err := newNotifier(nil).Build(sampleEvent(event.OrderCreated))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "ada@example.com", job.To)
	assert.Equal(t, "[JEMI] Order JM20261015A1B2C3 confirmed", job.Subject)
	assert.Equal(t, mailtpl.OrderCreated, job.Template)
	assert.Contains(t, job.Text, "Ankara Wrap Dress x2")
	assert.Contains(t, job.Text, "Total: ₦50,000")
	assert.Contains(t, job.Text, "15 October 2026")
	assert.Contains(t, job.HTML, "Thanks for your order, Ada Obi!")
}

func TestBuild_StatusChanged(t *testing.T) {
	ev := sampleEvent(event.OrderStatusChanged)
	ev.PrevStatus = entity.OrderProcessing
	ev.Status = entity.OrderShipped
	ev.Note = "Dispatched with GIG Logistics"

	job, ok, err := newNotifier(nil).Build(ev)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[JEMI] Order JM20261015A1B2C3 is now Shipped", job.Subject)
	assert.Contains(t, job.Text, "from Processing to Shipped")
	assert.Contains(t, job.HTML, "Dispatched with GIG Logistics")
}

func TestHandle_SendsRenderedEmail(t *testing.T) {
	s := &senderMock{}
	s.On("Send", mock.Anything, "ada@example.com", "[JEMI] Order JM20261015A1B2C3 cancelled", mock.Anything, mock.Anything).
		Return(nil).Once()

	err := newNotifier(s).Handle(context.Background(), body(t, sampleEvent(event.OrderCancelled)))
	require.NoError(t, err)
	s.AssertExpectations(t)
}

func TestHandle_SenderFailureIsRetryable(t *testing.T) {
	s := &senderMock{}
	s.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("mailgun: 502"))

	err := newNotifier(s).Handle(context.Background(), body(t, sampleEvent(event.OrderCreated)))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformed))
}

func TestHandle_Malformed(t *testing.T) {
	s := &senderMock{}
	n := newNotifier(s)

	err := n.Handle(context.Background(), []byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformed)

	ev := sampleEvent(event.OrderCreated)
	ev.CustomerEmail = ""
	err = n.Handle(context.Background(), body(t, ev))
	assert.ErrorIs(t, err, ErrMalformed)

	s.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandle_UnknownTypeSkipped(t *testing.T) {
	s := &senderMock{}
	err := newNotifier(s).Handle(context.Background(), body(t, sampleEvent("order.refunded")))
	require.NoError(t, err)
	s.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
