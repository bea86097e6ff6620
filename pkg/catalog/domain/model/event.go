package model

import "github.com/google/uuid"

type ProductCreated struct {
	ProductID  uuid.UUID
	Name       string
	Quantity   int
	PriceCents int64
}

func (e ProductCreated) Type() string { return "ProductCreated" }

type ProductUpdated struct {
	ProductID  uuid.UUID
	Name       string
	Quantity   int
	PriceCents int64
}

func (e ProductUpdated) Type() string { return "ProductUpdated" }

type ProductDeleted struct {
	ProductID uuid.UUID
}

func (e ProductDeleted) Type() string { return "ProductDeleted" }

type ProductOversold struct {
	ProductID uuid.UUID
	Deficit   int
}

func (e ProductOversold) Type() string { return "ProductOversold" }
