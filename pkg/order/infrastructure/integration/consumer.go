package integration

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"marketplace/pkg/common/infrastructure/amqp"
	"marketplace/pkg/contracts"
	"marketplace/pkg/order/domain/service"
)

type Subscriber interface {
	Subscribe(ctx context.Context, queue string, handler amqp.HandlerFunc) error
}

// RunConsumers subscribes the catalog synchronizer to the product event
// queues. Oversell notifications are only logged; the replica converges
// through the regular product-updated flow.
func RunConsumers(ctx context.Context, g *errgroup.Group, subscriber Subscriber, synchronizer service.CatalogSynchronizer) {
	g.Go(func() error {
		return subscriber.Subscribe(ctx, contracts.ProductCreatedQueue, func(body []byte) error {
			var event contracts.ProductCreated
			if err := json.Unmarshal(body, &event); err != nil {
				return errors.Wrap(err, "decode product created event")
			}
			return synchronizer.HandleProductCreated(event)
		})
	})
	g.Go(func() error {
		return subscriber.Subscribe(ctx, contracts.ProductUpdatedQueue, func(body []byte) error {
			var event contracts.ProductUpdated
			if err := json.Unmarshal(body, &event); err != nil {
				return errors.Wrap(err, "decode product updated event")
			}
			return synchronizer.HandleProductUpdated(event)
		})
	})
	g.Go(func() error {
		return subscriber.Subscribe(ctx, contracts.ProductDeletedQueue, func(body []byte) error {
			var event contracts.ProductDeleted
			if err := json.Unmarshal(body, &event); err != nil {
				return errors.Wrap(err, "decode product deleted event")
			}
			return synchronizer.HandleProductDeleted(event)
		})
	})
	g.Go(func() error {
		return subscriber.Subscribe(ctx, contracts.ProductOversoldQueue, func(body []byte) error {
			var event contracts.ProductOversold
			if err := json.Unmarshal(body, &event); err != nil {
				return errors.Wrap(err, "decode product oversold event")
			}
			log.WithFields(log.Fields{
				"productId": event.ProductID,
				"deficit":   event.Deficit,
			}).Warn("catalog reported oversold product")
			return nil
		})
	})
}
