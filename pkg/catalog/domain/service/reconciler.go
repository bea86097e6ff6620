package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"marketplace/pkg/catalog/domain/model"
	"marketplace/pkg/common/domain"
	"marketplace/pkg/contracts"
)

// InventoryReconciler folds incoming order lifecycle events into the
// authoritative product quantity. Every order event carries the order's
// version as a sequence number. Deltas commute, so distinct sequences are
// applied in whatever order they arrive; an applied-sequence set per order
// drops exact redeliveries only. The quantity update and the applied mark
// share one transaction, so a failure between them rolls both back and the
// redelivered event is applied exactly once.
type InventoryReconciler interface {
	HandleOrderCreated(event contracts.OrderCreated) error
	HandleOrderUpdated(event contracts.OrderUpdated) error
	HandleOrderDeleted(event contracts.OrderDeleted) error
}

func NewInventoryReconciler(
	uow model.ReconciliationUnitOfWork,
	dispatcher domain.EventDispatcher,
) InventoryReconciler {
	return &inventoryReconciler{uow: uow, dispatcher: dispatcher}
}

type inventoryReconciler struct {
	uow        model.ReconciliationUnitOfWork
	dispatcher domain.EventDispatcher
}

func (r *inventoryReconciler) HandleOrderCreated(event contracts.OrderCreated) error {
	return r.apply(event.OrderID, event.Sequence, event.ProductID, -event.Quantity)
}

func (r *inventoryReconciler) HandleOrderUpdated(event contracts.OrderUpdated) error {
	// sign-aware: a positive diff further decrements, a negative diff restores
	return r.apply(event.OrderID, event.Sequence, event.ProductID, -event.QuantityDifference)
}

func (r *inventoryReconciler) HandleOrderDeleted(event contracts.OrderDeleted) error {
	return r.apply(event.OrderID, event.Sequence, event.ProductID, event.Quantity)
}

func (r *inventoryReconciler) apply(orderID uuid.UUID, sequence int, productID uuid.UUID, delta int) error {
	deficit := 0
	err := r.uow.Execute(func(products model.ProductRepository, applied model.AppliedEventRepository) error {
		done, err := applied.IsApplied(orderID, sequence)
		if err != nil {
			return err
		}
		if done {
			log.WithFields(log.Fields{
				"orderId":  orderID,
				"sequence": sequence,
			}).Info("skipping duplicate order event")
			return nil
		}

		product, err := products.Find(productID)
		if err != nil {
			if errors.Is(err, model.ErrProductNotFound) {
				// the product is gone on the authoritative side; drop the event
				// but mark it applied so a redelivery is not treated as new
				log.WithFields(log.Fields{
					"orderId":   orderID,
					"productId": productID,
				}).Warn("dropping order event for unknown product")
				return applied.MarkApplied(orderID, sequence)
			}
			return err
		}

		quantity := product.Quantity + delta
		if quantity < 0 {
			deficit = -quantity
			quantity = 0
		}

		product.Quantity = quantity
		product.UpdatedAt = time.Now().UTC()

		if err := products.Update(product); err != nil {
			return err
		}
		return applied.MarkApplied(orderID, sequence)
	})
	if err != nil {
		return err
	}

	// dispatched only after the transaction committed
	if deficit > 0 {
		log.WithFields(log.Fields{
			"productId": productID,
			"deficit":   deficit,
		}).Warn("product oversold, quantity clamped at zero")
		_ = r.dispatcher.Dispatch(model.ProductOversold{ProductID: productID, Deficit: deficit})
	}
	return nil
}
