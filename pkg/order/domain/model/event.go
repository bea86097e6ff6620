package model

import "github.com/google/uuid"

type OrderCreated struct {
	OrderID   uuid.UUID
	Sequence  int
	ProductID uuid.UUID
	Quantity  int
}

func (e OrderCreated) Type() string { return "OrderCreated" }

type OrderUpdated struct {
	OrderID            uuid.UUID
	Sequence           int
	ProductID          uuid.UUID
	QuantityDifference int
}

func (e OrderUpdated) Type() string { return "OrderUpdated" }

type OrderDeleted struct {
	OrderID   uuid.UUID
	Sequence  int
	ProductID uuid.UUID
	Quantity  int
}

func (e OrderDeleted) Type() string { return "OrderDeleted" }
