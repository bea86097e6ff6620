package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// ProductReadModel is the local replica of the catalog side's authoritative
// product. It is advisory only and may lag: the catalog synchronizer owns
// replication, while order handling reads it for pricing and availability and
// adjusts its quantity optimistically as bookkeeping for local reservations.
type ProductReadModel struct {
	ID         uuid.UUID
	Name       string
	Quantity   int
	PriceCents int64
	CreatedAt  time.Time
}

type ProductReadModelRepository interface {
	Create(product *ProductReadModel) error
	Update(product *ProductReadModel) error
	Find(id uuid.UUID) (*ProductReadModel, error)
	FindAll() ([]ProductReadModel, error)
	Delete(id uuid.UUID) error
}
