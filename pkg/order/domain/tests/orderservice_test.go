package tests

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/pkg/common/domain"
	"marketplace/pkg/order/domain/model"
	"marketplace/pkg/order/domain/service"
)

func setup(t *testing.T) (service.OrderService, *mockOrderRepository, *mockReadModelRepository, *mockEventDispatcher) {
	t.Helper()
	orders := &mockOrderRepository{store: make(map[uuid.UUID]*model.Order)}
	products := &mockReadModelRepository{store: make(map[uuid.UUID]*model.ProductReadModel)}
	dispatcher := &mockEventDispatcher{}
	orderService := service.NewOrderService(orders, products, dispatcher)
	return orderService, orders, products, dispatcher
}

func seedReplica(products *mockReadModelRepository, quantity int, priceCents int64) uuid.UUID {
	id := uuid.New()
	products.store[id] = &model.ProductReadModel{
		ID:         id,
		Name:       "Widget",
		Quantity:   quantity,
		PriceCents: priceCents,
		CreatedAt:  time.Now().UTC(),
	}
	return id
}

func TestCreateOrder(t *testing.T) {
	orderService, orders, products, dispatcher := setup(t)
	productID := seedReplica(products, 5, 200)

	t.Run("Success adjusts the replica and emits one event", func(t *testing.T) {
		order, err := orderService.CreateOrder(productID, 3)

		require.NoError(t, err)
		require.NotNil(t, order)
		assert.Equal(t, productID, order.ProductID)
		assert.Equal(t, 3, order.Quantity)
		assert.Equal(t, int64(600), order.TotalPriceCents)
		assert.Equal(t, 1, order.Version)

		_, ok := orders.store[order.ID]
		require.True(t, ok)
		assert.Equal(t, 2, products.store[productID].Quantity)

		require.Len(t, dispatcher.events, 1)
		event, ok := dispatcher.events[0].(model.OrderCreated)
		require.True(t, ok)
		assert.Equal(t, order.ID, event.OrderID)
		assert.Equal(t, 1, event.Sequence)
		assert.Equal(t, productID, event.ProductID)
		assert.Equal(t, 3, event.Quantity)
	})

	t.Run("Fail when requested quantity exceeds the replica", func(t *testing.T) {
		dispatcher.Reset()
		before := len(orders.store)

		_, err := orderService.CreateOrder(productID, 10)

		assert.ErrorIs(t, err, service.ErrOutOfStock)
		assert.Len(t, orders.store, before)
		assert.Empty(t, dispatcher.events)
	})

	t.Run("Fail when the replica is absent", func(t *testing.T) {
		dispatcher.Reset()
		_, err := orderService.CreateOrder(uuid.New(), 1)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
		assert.Empty(t, dispatcher.events)
	})

	t.Run("Fail on non-positive quantity", func(t *testing.T) {
		_, err := orderService.CreateOrder(productID, 0)
		assert.ErrorIs(t, err, service.ErrInvalidQuantity)
	})
}

func TestUpdateOrder(t *testing.T) {
	orderService, _, products, dispatcher := setup(t)
	productID := seedReplica(products, 5, 200)
	order, _ := orderService.CreateOrder(productID, 3)

	t.Run("Positive diff within remaining stock", func(t *testing.T) {
		dispatcher.Reset()

		updated, err := orderService.UpdateOrder(order.ID, productID, 5)

		require.NoError(t, err)
		assert.Equal(t, 5, updated.Quantity)
		assert.Equal(t, int64(1000), updated.TotalPriceCents)
		assert.Equal(t, 2, updated.Version)
		assert.Equal(t, 0, products.store[productID].Quantity)

		require.Len(t, dispatcher.events, 1)
		event, ok := dispatcher.events[0].(model.OrderUpdated)
		require.True(t, ok)
		assert.Equal(t, 2, event.Sequence)
		assert.Equal(t, 2, event.QuantityDifference)
	})

	t.Run("Fail when the diff exceeds remaining stock", func(t *testing.T) {
		dispatcher.Reset()
		_, err := orderService.UpdateOrder(order.ID, productID, 8)
		assert.ErrorIs(t, err, service.ErrOutOfStock)
		assert.Empty(t, dispatcher.events)
	})

	t.Run("Negative diff restores the replica", func(t *testing.T) {
		dispatcher.Reset()

		updated, err := orderService.UpdateOrder(order.ID, productID, 1)

		require.NoError(t, err)
		assert.Equal(t, 1, updated.Quantity)
		assert.Equal(t, 4, products.store[productID].Quantity)

		event := dispatcher.events[0].(model.OrderUpdated)
		assert.Equal(t, -4, event.QuantityDifference)
	})

	t.Run("Switching product applies the diff to the new replica", func(t *testing.T) {
		otherID := seedReplica(products, 10, 50)
		dispatcher.Reset()

		updated, err := orderService.UpdateOrder(order.ID, otherID, 3)

		require.NoError(t, err)
		assert.Equal(t, otherID, updated.ProductID)
		assert.Equal(t, int64(150), updated.TotalPriceCents)
		assert.Equal(t, 8, products.store[otherID].Quantity)
	})

	t.Run("Fail on unknown order", func(t *testing.T) {
		_, err := orderService.UpdateOrder(uuid.New(), productID, 1)
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
	})

	t.Run("Fail on unknown target product", func(t *testing.T) {
		_, err := orderService.UpdateOrder(order.ID, uuid.New(), 1)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})
}

func TestDeleteOrder(t *testing.T) {
	t.Run("Restocks the replica and emits one event", func(t *testing.T) {
		orderService, orders, products, dispatcher := setup(t)
		productID := seedReplica(products, 5, 200)
		order, _ := orderService.CreateOrder(productID, 3)
		dispatcher.Reset()

		err := orderService.DeleteOrder(order.ID)

		require.NoError(t, err)
		_, ok := orders.store[order.ID]
		assert.False(t, ok)
		assert.Equal(t, 5, products.store[productID].Quantity)

		require.Len(t, dispatcher.events, 1)
		event, ok := dispatcher.events[0].(model.OrderDeleted)
		require.True(t, ok)
		assert.Equal(t, order.ID, event.OrderID)
		assert.Equal(t, 2, event.Sequence)
		assert.Equal(t, 3, event.Quantity)
	})

	t.Run("Still deletes when the replica row is gone", func(t *testing.T) {
		orderService, orders, products, dispatcher := setup(t)
		productID := seedReplica(products, 5, 200)
		order, _ := orderService.CreateOrder(productID, 2)
		delete(products.store, productID)
		dispatcher.Reset()

		err := orderService.DeleteOrder(order.ID)

		require.NoError(t, err)
		_, ok := orders.store[order.ID]
		assert.False(t, ok)
		require.Len(t, dispatcher.events, 1)
	})

	t.Run("Fail on unknown order", func(t *testing.T) {
		orderService, _, _, dispatcher := setup(t)
		err := orderService.DeleteOrder(uuid.New())
		assert.ErrorIs(t, err, model.ErrOrderNotFound)
		assert.Empty(t, dispatcher.events)
	})
}

var _ model.OrderRepository = &mockOrderRepository{}

type mockOrderRepository struct {
	store map[uuid.UUID]*model.Order
}

func (m *mockOrderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (m *mockOrderRepository) Create(order *model.Order) error {
	clone := *order
	m.store[order.ID] = &clone
	return nil
}

func (m *mockOrderRepository) Update(order *model.Order) error {
	if _, ok := m.store[order.ID]; !ok {
		return model.ErrOrderNotFound
	}
	clone := *order
	m.store[order.ID] = &clone
	return nil
}

func (m *mockOrderRepository) Find(id uuid.UUID) (*model.Order, error) {
	order, ok := m.store[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	clone := *order
	return &clone, nil
}

func (m *mockOrderRepository) FindAll() ([]model.Order, error) {
	orders := make([]model.Order, 0, len(m.store))
	for _, order := range m.store {
		orders = append(orders, *order)
	}
	return orders, nil
}

func (m *mockOrderRepository) Delete(id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

var _ model.ProductReadModelRepository = &mockReadModelRepository{}

type mockReadModelRepository struct {
	store map[uuid.UUID]*model.ProductReadModel
}

func (m *mockReadModelRepository) Create(product *model.ProductReadModel) error {
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

func (m *mockReadModelRepository) Update(product *model.ProductReadModel) error {
	if _, ok := m.store[product.ID]; !ok {
		return model.ErrProductNotFound
	}
	clone := *product
	m.store[product.ID] = &clone
	return nil
}

func (m *mockReadModelRepository) Find(id uuid.UUID) (*model.ProductReadModel, error) {
	product, ok := m.store[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (m *mockReadModelRepository) FindAll() ([]model.ProductReadModel, error) {
	products := make([]model.ProductReadModel, 0, len(m.store))
	for _, product := range m.store {
		products = append(products, *product)
	}
	return products, nil
}

func (m *mockReadModelRepository) Delete(id uuid.UUID) error {
	delete(m.store, id)
	return nil
}

var _ domain.EventDispatcher = &mockEventDispatcher{}

type mockEventDispatcher struct {
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}

func (m *mockEventDispatcher) Reset() {
	m.events = nil
}
