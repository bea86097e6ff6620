package integration

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"marketplace/pkg/catalog/domain/service"
	"marketplace/pkg/common/infrastructure/amqp"
	"marketplace/pkg/contracts"
)

type Subscriber interface {
	Subscribe(ctx context.Context, queue string, handler amqp.HandlerFunc) error
}

// RunConsumers subscribes the inventory reconciler to the order event queues.
// Each subscription runs until the group context is cancelled.
func RunConsumers(ctx context.Context, g *errgroup.Group, subscriber Subscriber, reconciler service.InventoryReconciler) {
	g.Go(func() error {
		return subscriber.Subscribe(ctx, contracts.OrderCreatedQueue, func(body []byte) error {
			var event contracts.OrderCreated
			if err := json.Unmarshal(body, &event); err != nil {
				return errors.Wrap(err, "decode order created event")
			}
			return reconciler.HandleOrderCreated(event)
		})
	})
	g.Go(func() error {
		return subscriber.Subscribe(ctx, contracts.OrderUpdatedQueue, func(body []byte) error {
			var event contracts.OrderUpdated
			if err := json.Unmarshal(body, &event); err != nil {
				return errors.Wrap(err, "decode order updated event")
			}
			return reconciler.HandleOrderUpdated(event)
		})
	})
	g.Go(func() error {
		return subscriber.Subscribe(ctx, contracts.OrderDeletedQueue, func(body []byte) error {
			var event contracts.OrderDeleted
			if err := json.Unmarshal(body, &event); err != nil {
				return errors.Wrap(err, "decode order deleted event")
			}
			return reconciler.HandleOrderDeleted(event)
		})
	})
}
