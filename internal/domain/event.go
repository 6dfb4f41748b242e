package domain

import "time"

type CatalogEventType string

const (
	EventProductCreated         CatalogEventType = "product.created"
	EventProductUpdated         CatalogEventType = "product.updated"
	EventProductDeleted         CatalogEventType = "product.deleted"
	EventProductImported        CatalogEventType = "product.imported"
	EventCheckoutSessionCreated CatalogEventType = "checkout.session_created"
)

// CatalogEvent — событие об изменении каталога или создании платёжной сессии.
type CatalogEvent struct {
	EventID    string           `json:"eventId"`
	Type       CatalogEventType `json:"type"`
	Key        string           `json:"key"` // ID товара или платёжной сессии
	OccurredAt time.Time        `json:"occurredAt"`
	Payload    any              `json:"payload,omitempty"`
}
