package model

import "github.com/google/uuid"

// AppliedEventRepository remembers which order event sequences have been
// folded into the authoritative quantity. Order events carry commuting
// deltas, so distinct sequences may arrive and apply in any order; only an
// exact repeat of an already applied sequence is a duplicate. Applied rows
// outlive the orders they track so late redeliveries of a deleted order
// stay inert.
type AppliedEventRepository interface {
	IsApplied(orderID uuid.UUID, sequence int) (bool, error)
	MarkApplied(orderID uuid.UUID, sequence int) error
}

// ReconciliationUnitOfWork runs fn against repositories bound to a single
// transaction: either the quantity change and the applied mark commit
// together, or neither does and the delivery is retried.
type ReconciliationUnitOfWork interface {
	Execute(fn func(products ProductRepository, applied AppliedEventRepository) error) error
}
