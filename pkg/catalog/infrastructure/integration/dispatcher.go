// Package integration connects the catalog domain to the event channel:
// outgoing domain events are translated to wire messages, incoming order
// events are decoded and handed to the inventory reconciler.
package integration

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"marketplace/pkg/catalog/domain/model"
	"marketplace/pkg/common/domain"
	"marketplace/pkg/contracts"
)

type EventPublisher interface {
	Publish(queue string, message interface{}) error
}

// NewEventDispatcher adapts the shared publisher to the domain dispatcher,
// mapping each product event to its queue and wire schema.
func NewEventDispatcher(publisher EventPublisher) domain.EventDispatcher {
	return &eventDispatcher{publisher: publisher}
}

type eventDispatcher struct {
	publisher EventPublisher
}

func (d *eventDispatcher) Dispatch(event domain.Event) error {
	switch e := event.(type) {
	case model.ProductCreated:
		return d.publisher.Publish(contracts.ProductCreatedQueue, contracts.ProductCreated{
			EventID:    uuid.New(),
			ProductID:  e.ProductID,
			Name:       e.Name,
			Quantity:   e.Quantity,
			PriceCents: e.PriceCents,
		})
	case model.ProductUpdated:
		return d.publisher.Publish(contracts.ProductUpdatedQueue, contracts.ProductUpdated{
			EventID:    uuid.New(),
			ProductID:  e.ProductID,
			Name:       e.Name,
			Quantity:   e.Quantity,
			PriceCents: e.PriceCents,
		})
	case model.ProductDeleted:
		return d.publisher.Publish(contracts.ProductDeletedQueue, contracts.ProductDeleted{
			EventID:   uuid.New(),
			ProductID: e.ProductID,
		})
	case model.ProductOversold:
		return d.publisher.Publish(contracts.ProductOversoldQueue, contracts.ProductOversold{
			EventID:   uuid.New(),
			ProductID: e.ProductID,
			Deficit:   e.Deficit,
		})
	default:
		return errors.Errorf("no queue mapping for event %s", event.Type())
	}
}
