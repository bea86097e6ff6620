package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrOrderNotFound = errors.New("order not found")

type Order struct {
	ID              uuid.UUID
	ProductID       uuid.UUID
	Quantity        int
	TotalPriceCents int64
	// Version counts mutations and is carried on outgoing events as the
	// sequence the catalog side deduplicates on.
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Create(order *Order) error
	Update(order *Order) error
	Find(id uuid.UUID) (*Order, error)
	FindAll() ([]Order, error)
	Delete(id uuid.UUID) error
}
