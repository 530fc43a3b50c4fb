package events

import (
	"context"
	"errors"
	"time"
)

// Event types published by the catalog, review and admin flows.
const (
	ProductCreated       = "product.created"
	ProductUpdated       = "product.updated"
	ProductDeleted       = "product.deleted"
	ProductRatingUpdated = "product.rating.updated"
	FlashSaleCreated     = "flash_sale.created"
	FlashSaleUpdated     = "flash_sale.updated"
	FlashSaleDeleted     = "flash_sale.deleted"
	ReviewCreated        = "review.created"
	TestimonialSubmitted = "testimonial.submitted"
	UserRoleChanged      = "user.role.changed"
)

type Event struct {
	Type       string      `json:"type"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurredAt"`
}

func New(eventType string, payload interface{}) Event {
	return Event{Type: eventType, Payload: payload, OccurredAt: time.Now().UTC()}
}

// Publisher delivers events to some audience. Publishing is best effort: callers log failures
// and never roll back the change that produced the event.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, evt); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
