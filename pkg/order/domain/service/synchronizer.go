package service

import (
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"marketplace/pkg/contracts"
	"marketplace/pkg/order/domain/model"
)

// CatalogSynchronizer folds product lifecycle events from the catalog side
// into the local replica. Delivery is at-least-once and unordered, so created
// is idempotent, updated is last-event-wins upsert (a reordered stale update
// can win; accepted because the replica is advisory), deleted tolerates
// already-gone rows.
type CatalogSynchronizer interface {
	HandleProductCreated(event contracts.ProductCreated) error
	HandleProductUpdated(event contracts.ProductUpdated) error
	HandleProductDeleted(event contracts.ProductDeleted) error
}

func NewCatalogSynchronizer(products model.ProductReadModelRepository) CatalogSynchronizer {
	return &catalogSynchronizer{products: products}
}

type catalogSynchronizer struct {
	products model.ProductReadModelRepository
}

func (s *catalogSynchronizer) HandleProductCreated(event contracts.ProductCreated) error {
	if _, err := s.products.Find(event.ProductID); err == nil {
		// duplicate delivery, the replica row already exists
		return nil
	} else if !errors.Is(err, model.ErrProductNotFound) {
		return err
	}

	return s.products.Create(&model.ProductReadModel{
		ID:         event.ProductID,
		Name:       event.Name,
		Quantity:   event.Quantity,
		PriceCents: event.PriceCents,
		CreatedAt:  time.Now().UTC(),
	})
}

func (s *catalogSynchronizer) HandleProductUpdated(event contracts.ProductUpdated) error {
	product, err := s.products.Find(event.ProductID)
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			// update may outrun create; insert from the event snapshot
			return s.products.Create(&model.ProductReadModel{
				ID:         event.ProductID,
				Name:       event.Name,
				Quantity:   event.Quantity,
				PriceCents: event.PriceCents,
				CreatedAt:  time.Now().UTC(),
			})
		}
		return err
	}

	product.Name = event.Name
	product.Quantity = event.Quantity
	product.PriceCents = event.PriceCents
	return s.products.Update(product)
}

func (s *catalogSynchronizer) HandleProductDeleted(event contracts.ProductDeleted) error {
	if _, err := s.products.Find(event.ProductID); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			log.WithField("productId", event.ProductID).Info("replica row already removed")
			return nil
		}
		return err
	}
	return s.products.Delete(event.ProductID)
}
