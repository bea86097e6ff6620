package integration

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/pkg/catalog/domain/model"
	"marketplace/pkg/contracts"
)

type fakePublisher struct {
	queues   []string
	messages []interface{}
}

func (f *fakePublisher) Publish(queue string, message interface{}) error {
	f.queues = append(f.queues, queue)
	f.messages = append(f.messages, message)
	return nil
}

func TestDispatchProductEvents(t *testing.T) {
	publisher := &fakePublisher{}
	dispatcher := NewEventDispatcher(publisher)
	productID := uuid.New()

	t.Run("ProductCreated", func(t *testing.T) {
		err := dispatcher.Dispatch(model.ProductCreated{
			ProductID:  productID,
			Name:       "Widget",
			Quantity:   5,
			PriceCents: 200,
		})

		require.NoError(t, err)
		assert.Equal(t, contracts.ProductCreatedQueue, publisher.queues[0])
		message := publisher.messages[0].(contracts.ProductCreated)
		assert.Equal(t, productID, message.ProductID)
		assert.Equal(t, "Widget", message.Name)
		assert.Equal(t, 5, message.Quantity)
		assert.Equal(t, int64(200), message.PriceCents)
		assert.NotEqual(t, uuid.Nil, message.EventID)
	})

	t.Run("ProductUpdated", func(t *testing.T) {
		err := dispatcher.Dispatch(model.ProductUpdated{
			ProductID:  productID,
			Name:       "Widget v2",
			Quantity:   7,
			PriceCents: 250,
		})

		require.NoError(t, err)
		assert.Equal(t, contracts.ProductUpdatedQueue, publisher.queues[1])
		message := publisher.messages[1].(contracts.ProductUpdated)
		assert.Equal(t, "Widget v2", message.Name)
	})

	t.Run("ProductDeleted", func(t *testing.T) {
		err := dispatcher.Dispatch(model.ProductDeleted{ProductID: productID})

		require.NoError(t, err)
		assert.Equal(t, contracts.ProductDeletedQueue, publisher.queues[2])
		message := publisher.messages[2].(contracts.ProductDeleted)
		assert.Equal(t, productID, message.ProductID)
	})

	t.Run("ProductOversold", func(t *testing.T) {
		err := dispatcher.Dispatch(model.ProductOversold{ProductID: productID, Deficit: 3})

		require.NoError(t, err)
		assert.Equal(t, contracts.ProductOversoldQueue, publisher.queues[3])
		message := publisher.messages[3].(contracts.ProductOversold)
		assert.Equal(t, 3, message.Deficit)
	})

	t.Run("Unmapped event", func(t *testing.T) {
		err := dispatcher.Dispatch(unmappedEvent{})
		assert.Error(t, err)
		assert.Len(t, publisher.queues, 4)
	})
}

type unmappedEvent struct{}

func (unmappedEvent) Type() string { return "unmapped" }
