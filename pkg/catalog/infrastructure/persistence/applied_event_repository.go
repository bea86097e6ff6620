package persistence

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"marketplace/pkg/catalog/domain/model"
)

var _ model.AppliedEventRepository = &appliedEventRepository{}

type appliedEventRepository struct {
	ext sqlx.Ext
}

func (r *appliedEventRepository) IsApplied(orderID uuid.UUID, sequence int) (bool, error) {
	var one int
	err := sqlx.Get(r.ext, &one, `
		SELECT 1 FROM applied_order_events WHERE order_id = ? AND sequence = ?`,
		orderID.String(), sequence)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrap(err, "check applied order event")
	}
	return true, nil
}

func (r *appliedEventRepository) MarkApplied(orderID uuid.UUID, sequence int) error {
	_, err := r.ext.Exec(`
		INSERT INTO applied_order_events (order_id, sequence) VALUES (?, ?)`,
		orderID.String(), sequence)
	return errors.Wrap(err, "mark order event applied")
}
