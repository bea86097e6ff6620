// Package integration connects the order domain to the event channel:
// outgoing order events are translated to wire messages, incoming product
// events are decoded and handed to the catalog synchronizer.
package integration

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"marketplace/pkg/common/domain"
	"marketplace/pkg/contracts"
	"marketplace/pkg/order/domain/model"
)

type EventPublisher interface {
	Publish(queue string, message interface{}) error
}

func NewEventDispatcher(publisher EventPublisher) domain.EventDispatcher {
	return &eventDispatcher{publisher: publisher}
}

type eventDispatcher struct {
	publisher EventPublisher
}

func (d *eventDispatcher) Dispatch(event domain.Event) error {
	switch e := event.(type) {
	case model.OrderCreated:
		return d.publisher.Publish(contracts.OrderCreatedQueue, contracts.OrderCreated{
			EventID:   uuid.New(),
			OrderID:   e.OrderID,
			Sequence:  e.Sequence,
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
		})
	case model.OrderUpdated:
		return d.publisher.Publish(contracts.OrderUpdatedQueue, contracts.OrderUpdated{
			EventID:            uuid.New(),
			OrderID:            e.OrderID,
			Sequence:           e.Sequence,
			ProductID:          e.ProductID,
			QuantityDifference: e.QuantityDifference,
		})
	case model.OrderDeleted:
		return d.publisher.Publish(contracts.OrderDeletedQueue, contracts.OrderDeleted{
			EventID:   uuid.New(),
			OrderID:   e.OrderID,
			Sequence:  e.Sequence,
			ProductID: e.ProductID,
			Quantity:  e.Quantity,
		})
	default:
		return errors.Errorf("no queue mapping for event %s", event.Type())
	}
}
