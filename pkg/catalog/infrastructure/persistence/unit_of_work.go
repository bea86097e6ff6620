package persistence

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"marketplace/pkg/catalog/domain/model"
)

func NewReconciliationUnitOfWork(db *sqlx.DB) model.ReconciliationUnitOfWork {
	return &reconciliationUnitOfWork{db: db}
}

type reconciliationUnitOfWork struct {
	db *sqlx.DB
}

// Execute runs fn with repositories bound to one transaction. An error from
// fn rolls everything back, so a nacked delivery is retried against the
// pre-event state.
func (u *reconciliationUnitOfWork) Execute(fn func(products model.ProductRepository, applied model.AppliedEventRepository) error) error {
	tx, err := u.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin reconciliation transaction")
	}

	if err := fn(&productRepository{ext: tx}, &appliedEventRepository{ext: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return errors.Wrap(tx.Commit(), "commit reconciliation transaction")
}
