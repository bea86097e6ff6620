package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"marketplace/pkg/common/domain"
	"marketplace/pkg/order/domain/model"
)

var (
	ErrOutOfStock      = errors.New("insufficient product quantity")
	ErrInvalidQuantity = errors.New("order quantity must be a positive number")
)

type OrderService interface {
	CreateOrder(productID uuid.UUID, quantity int) (*model.Order, error)
	UpdateOrder(orderID, productID uuid.UUID, quantity int) (*model.Order, error)
	DeleteOrder(orderID uuid.UUID) error
}

func NewOrderService(
	orders model.OrderRepository,
	products model.ProductReadModelRepository,
	dispatcher domain.EventDispatcher,
) OrderService {
	return &orderService{orders: orders, products: products, dispatcher: dispatcher}
}

type orderService struct {
	orders     model.OrderRepository
	products   model.ProductReadModelRepository
	dispatcher domain.EventDispatcher
}

// CreateOrder checks availability against the local replica, which may be
// stale. The replica decrement below is advisory bookkeeping; the
// authoritative decrement happens on the catalog side when it consumes the
// emitted event.
func (s *orderService) CreateOrder(productID uuid.UUID, quantity int) (*model.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.Find(productID)
	if err != nil {
		return nil, err
	}
	if product.Quantity < quantity {
		return nil, ErrOutOfStock
	}

	orderID, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:              orderID,
		ProductID:       productID,
		Quantity:        quantity,
		TotalPriceCents: product.PriceCents * int64(quantity),
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	product.Quantity -= quantity
	if err := s.products.Update(product); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.OrderCreated{
		OrderID:   orderID,
		Sequence:  order.Version,
		ProductID: productID,
		Quantity:  quantity,
	})
	return order, nil
}

func (s *orderService) UpdateOrder(orderID, productID uuid.UUID, quantity int) (*model.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	order, err := s.orders.Find(orderID)
	if err != nil {
		return nil, err
	}

	product, err := s.products.Find(productID)
	if err != nil {
		return nil, err
	}

	quantityDiff := quantity - order.Quantity
	if quantityDiff > 0 && product.Quantity < quantityDiff {
		return nil, ErrOutOfStock
	}

	product.Quantity -= quantityDiff
	if err := s.products.Update(product); err != nil {
		return nil, err
	}

	order.ProductID = productID
	order.Quantity = quantity
	order.TotalPriceCents = product.PriceCents * int64(quantity)
	order.Version++
	order.UpdatedAt = time.Now().UTC()

	if err := s.orders.Update(order); err != nil {
		return nil, err
	}

	_ = s.dispatcher.Dispatch(model.OrderUpdated{
		OrderID:            orderID,
		Sequence:           order.Version,
		ProductID:          productID,
		QuantityDifference: quantityDiff,
	})
	return order, nil
}

func (s *orderService) DeleteOrder(orderID uuid.UUID) error {
	order, err := s.orders.Find(orderID)
	if err != nil {
		return err
	}

	// compensate the optimistic decrement; the replica may already be gone
	// if the product was deleted on the catalog side
	product, err := s.products.Find(order.ProductID)
	switch {
	case err == nil:
		product.Quantity += order.Quantity
		if err := s.products.Update(product); err != nil {
			return err
		}
	case !errors.Is(err, model.ErrProductNotFound):
		return err
	}

	if err := s.orders.Delete(orderID); err != nil {
		return err
	}

	_ = s.dispatcher.Dispatch(model.OrderDeleted{
		OrderID:   orderID,
		Sequence:  order.Version + 1,
		ProductID: order.ProductID,
		Quantity:  order.Quantity,
	})
	return nil
}
