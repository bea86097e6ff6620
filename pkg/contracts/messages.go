// Package contracts defines the wire contract between the catalog and order
// services. Both sides import message types from here, not from each other's
// domain packages.
package contracts

import "github.com/google/uuid"

// Queue names, one durable queue per event type.
const (
	ProductCreatedQueue  = "product-created-event"
	ProductUpdatedQueue  = "product-updated-event"
	ProductDeletedQueue  = "product-deleted-event"
	ProductOversoldQueue = "product-oversold-event"
	OrderCreatedQueue    = "order-created-event"
	OrderUpdatedQueue    = "order-updated-event"
	OrderDeletedQueue    = "order-deleted-event"
)

type ProductCreated struct {
	EventID    uuid.UUID `json:"event_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
}

type ProductUpdated struct {
	EventID    uuid.UUID `json:"event_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	PriceCents int64     `json:"price_cents"`
}

type ProductDeleted struct {
	EventID   uuid.UUID `json:"event_id"`
	ProductID uuid.UUID `json:"product_id"`
}

// ProductOversold is published by the catalog side when reconciling an order
// event would have driven the authoritative quantity below zero. The quantity
// is clamped at zero and the unmet part is reported as Deficit.
type ProductOversold struct {
	EventID   uuid.UUID `json:"event_id"`
	ProductID uuid.UUID `json:"product_id"`
	Deficit   int       `json:"deficit"`
}

// Order events carry the order's version as Sequence. Consumers keep a
// last-applied sequence per order so redelivered events are not applied twice.
type OrderCreated struct {
	EventID   uuid.UUID `json:"event_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Sequence  int       `json:"sequence"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type OrderUpdated struct {
	EventID            uuid.UUID `json:"event_id"`
	OrderID            uuid.UUID `json:"order_id"`
	Sequence           int       `json:"sequence"`
	ProductID          uuid.UUID `json:"product_id"`
	QuantityDifference int       `json:"quantity_difference"`
}

type OrderDeleted struct {
	EventID   uuid.UUID `json:"event_id"`
	OrderID   uuid.UUID `json:"order_id"`
	Sequence  int       `json:"sequence"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}
