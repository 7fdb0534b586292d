package templates

import (
	"time"

	"github.com/oksasatya/go-ecommerce-api/config"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/event"
	"github.com/oksasatya/go-ecommerce-api/pkg/money"
)

// Brand carries the sender-side fields shared by every email.
type Brand struct {
	CompanyName string
	AppName     string
	SupportURL  string
	OrdersURL   string
	Currency    string
	Location    *time.Location
}

// NewBrand reads the brand fields from cfg. Times render in Africa/Lagos,
// falling back to UTC when the zone database is missing.
func NewBrand(cfg *config.Config) Brand {
	loc, err := time.LoadLocation("Africa/Lagos")
	if err != nil {
		loc = time.UTC
	}
	return Brand{
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		SupportURL:  cfg.SupportURL,
		OrdersURL:   cfg.OrdersURL,
		Currency:    cfg.CurrencySymbol,
		Location:    loc,
	}
}

// Option pattern
type Option func(*OrderEmailData)

func WithNote(note string) Option { return func(d *OrderEmailData) { d.Note = note } }

func WithTime(t time.Time, loc *time.Location) Option {
	return func(d *OrderEmailData) {
		if loc == nil {
			loc = time.UTC
		}
		d.Time = t.In(loc).Format("02 January 2006, 15:04 MST")
	}
}

// NewOrderEmailData builds the template view of ev with amounts formatted in
// the brand currency.
func NewOrderEmailData(b Brand, ev event.OrderEvent, opts ...Option) OrderEmailData {
	d := OrderEmailData{
		Name:  ev.CustomerName,
		Email: ev.CustomerEmail,

		CompanyName: b.CompanyName,
		AppName:     b.AppName,
		SupportURL:  b.SupportURL,
		OrdersURL:   b.OrdersURL,

		OrderNumber: ev.OrderNumber,
		Status:      string(ev.Status),
		PrevStatus:  string(ev.PrevStatus),
		Note:        ev.Note,
		Total:       money.Format(ev.Total, b.Currency),
	}
	for _, l := range ev.Lines {
		d.Lines = append(d.Lines, LineData{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: money.Format(l.UnitPrice, b.Currency),
			Subtotal:  money.Format(l.Subtotal, b.Currency),
		})
	}
	WithTime(ev.OccurredAt, b.Location)(&d)
	for _, opt := range opts {
		opt(&d)
	}
	return d
}
