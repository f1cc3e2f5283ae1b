// Package events fans listing changes out to websocket clients and webhooks.
package events

import "github.com/shopspring/decimal"

type Type string

const (
	PropertyCreated Type = "property.created"
	PropertyUpdated Type = "property.updated"
	PropertyDeleted Type = "property.deleted"
)

// Event describes a change to one listing. Title, Price and SellerID are
// empty for deletions.
type Event struct {
	Type       Type             `json:"type"`
	PropertyID uint             `json:"property_id"`
	Title      string           `json:"title,omitempty"`
	Price      *decimal.Decimal `json:"price,omitempty"`
	SellerID   uint             `json:"seller_id,omitempty"`
}

// Publisher receives events. Publish must not block the caller for long.
type Publisher interface {
	Publish(Event)
}

// Fanout forwards each event to every publisher in order.
type Fanout []Publisher

func (f Fanout) Publish(e Event) {
	for _, p := range f {
		p.Publish(e)
	}
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
