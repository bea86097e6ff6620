package persistence

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"marketplace/pkg/order/domain/model"
)

func NewProductReadModelRepository(db *sqlx.DB) model.ProductReadModelRepository {
	return &productReadModelRepository{db: db}
}

type productReadModelRepository struct {
	db *sqlx.DB
}

type readModelRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Quantity   int       `db:"quantity"`
	PriceCents int64     `db:"price_cents"`
	CreatedAt  time.Time `db:"created_at"`
}

func (r *productReadModelRepository) Create(product *model.ProductReadModel) error {
	_, err := r.db.NamedExec(`
		INSERT INTO product_read_models (id, name, quantity, price_cents, created_at)
		VALUES (:id, :name, :quantity, :price_cents, :created_at)`,
		toReadModelRow(product),
	)
	return errors.Wrap(err, "insert product read model")
}

func (r *productReadModelRepository) Update(product *model.ProductReadModel) error {
	result, err := r.db.NamedExec(`
		UPDATE product_read_models
		SET name = :name, quantity = :quantity, price_cents = :price_cents
		WHERE id = :id`,
		toReadModelRow(product),
	)
	if err != nil {
		return errors.Wrap(err, "update product read model")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update product read model")
	}
	if affected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *productReadModelRepository) Find(id uuid.UUID) (*model.ProductReadModel, error) {
	var row readModelRow
	err := r.db.Get(&row, `
		SELECT id, name, quantity, price_cents, created_at
		FROM product_read_models WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product read model")
	}
	return fromReadModelRow(row)
}

func (r *productReadModelRepository) FindAll() ([]model.ProductReadModel, error) {
	var rows []readModelRow
	err := r.db.Select(&rows, `
		SELECT id, name, quantity, price_cents, created_at
		FROM product_read_models ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list product read models")
	}

	products := make([]model.ProductReadModel, 0, len(rows))
	for _, row := range rows {
		product, err := fromReadModelRow(row)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (r *productReadModelRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM product_read_models WHERE id = ?`, id.String())
	return errors.Wrap(err, "delete product read model")
}

func toReadModelRow(product *model.ProductReadModel) readModelRow {
	return readModelRow{
		ID:         product.ID.String(),
		Name:       product.Name,
		Quantity:   product.Quantity,
		PriceCents: product.PriceCents,
		CreatedAt:  product.CreatedAt,
	}
}

func fromReadModelRow(row readModelRow) (*model.ProductReadModel, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse product id")
	}
	return &model.ProductReadModel{
		ID:         id,
		Name:       row.Name,
		Quantity:   row.Quantity,
		PriceCents: row.PriceCents,
		CreatedAt:  row.CreatedAt,
	}, nil
}
