package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

type Product struct {
	ID         uuid.UUID
	Name       string
	Quantity   int
	PriceCents int64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Create(product *Product) error
	Update(product *Product) error
	Find(id uuid.UUID) (*Product, error)
	FindAll() ([]Product, error)
	Delete(id uuid.UUID) error
}
