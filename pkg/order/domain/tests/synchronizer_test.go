package tests

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/pkg/contracts"
	"marketplace/pkg/order/domain/model"
	"marketplace/pkg/order/domain/service"
)

func setupSynchronizer(t *testing.T) (service.CatalogSynchronizer, *mockReadModelRepository) {
	t.Helper()
	products := &mockReadModelRepository{store: make(map[uuid.UUID]*model.ProductReadModel)}
	return service.NewCatalogSynchronizer(products), products
}

func TestSynchronizeProductCreated(t *testing.T) {
	synchronizer, products := setupSynchronizer(t)
	productID := uuid.New()
	event := contracts.ProductCreated{
		EventID:    uuid.New(),
		ProductID:  productID,
		Name:       "Widget",
		Quantity:   5,
		PriceCents: 200,
	}

	t.Run("Success", func(t *testing.T) {
		require.NoError(t, synchronizer.HandleProductCreated(event))

		replica, ok := products.store[productID]
		require.True(t, ok)
		assert.Equal(t, "Widget", replica.Name)
		assert.Equal(t, 5, replica.Quantity)
		assert.Equal(t, int64(200), replica.PriceCents)
	})

	t.Run("Duplicate delivery leaves the replica untouched", func(t *testing.T) {
		products.store[productID].Quantity = 2

		require.NoError(t, synchronizer.HandleProductCreated(event))

		assert.Equal(t, 2, products.store[productID].Quantity)
	})
}

func TestSynchronizeProductUpdated(t *testing.T) {
	synchronizer, products := setupSynchronizer(t)
	productID := uuid.New()

	t.Run("Inserts from the snapshot when the update outruns the create", func(t *testing.T) {
		err := synchronizer.HandleProductUpdated(contracts.ProductUpdated{
			EventID:    uuid.New(),
			ProductID:  productID,
			Name:       "Widget",
			Quantity:   7,
			PriceCents: 250,
		})

		require.NoError(t, err)
		replica, ok := products.store[productID]
		require.True(t, ok)
		assert.Equal(t, 7, replica.Quantity)
	})

	t.Run("Overwrites an existing row, last event wins", func(t *testing.T) {
		err := synchronizer.HandleProductUpdated(contracts.ProductUpdated{
			EventID:    uuid.New(),
			ProductID:  productID,
			Name:       "Widget v2",
			Quantity:   3,
			PriceCents: 300,
		})

		require.NoError(t, err)
		replica := products.store[productID]
		assert.Equal(t, "Widget v2", replica.Name)
		assert.Equal(t, 3, replica.Quantity)
		assert.Equal(t, int64(300), replica.PriceCents)
	})
}

func TestSynchronizeProductDeleted(t *testing.T) {
	synchronizer, products := setupSynchronizer(t)
	productID := uuid.New()
	products.store[productID] = &model.ProductReadModel{ID: productID, Name: "Widget"}

	t.Run("Removes the replica row", func(t *testing.T) {
		err := synchronizer.HandleProductDeleted(contracts.ProductDeleted{
			EventID:   uuid.New(),
			ProductID: productID,
		})

		require.NoError(t, err)
		_, ok := products.store[productID]
		assert.False(t, ok)
	})

	t.Run("Redelivery after removal is a no-op", func(t *testing.T) {
		err := synchronizer.HandleProductDeleted(contracts.ProductDeleted{
			EventID:   uuid.New(),
			ProductID: productID,
		})
		assert.NoError(t, err)
	})
}
