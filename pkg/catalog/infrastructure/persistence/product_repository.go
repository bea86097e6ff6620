package persistence

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"marketplace/pkg/catalog/domain/model"
)

func NewProductRepository(db *sqlx.DB) model.ProductRepository {
	return &productRepository{ext: db}
}

// productRepository runs against either the pool or a transaction, so the
// reconciliation unit of work can reuse it unchanged.
type productRepository struct {
	ext sqlx.Ext
}

type productRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	Quantity   int       `db:"quantity"`
	PriceCents int64     `db:"price_cents"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Create(product *model.Product) error {
	_, err := sqlx.NamedExec(r.ext, `
		INSERT INTO products (id, name, quantity, price_cents, created_at, updated_at)
		VALUES (:id, :name, :quantity, :price_cents, :created_at, :updated_at)`,
		toProductRow(product),
	)
	return errors.Wrap(err, "insert product")
}

func (r *productRepository) Update(product *model.Product) error {
	result, err := sqlx.NamedExec(r.ext, `
		UPDATE products
		SET name = :name, quantity = :quantity, price_cents = :price_cents, updated_at = :updated_at
		WHERE id = :id`,
		toProductRow(product),
	)
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update product")
	}
	if affected == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

func (r *productRepository) Find(id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := sqlx.Get(r.ext, &row, `
		SELECT id, name, quantity, price_cents, created_at, updated_at
		FROM products WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find product")
	}
	return fromProductRow(row)
}

func (r *productRepository) FindAll() ([]model.Product, error) {
	var rows []productRow
	err := sqlx.Select(r.ext, &rows, `
		SELECT id, name, quantity, price_cents, created_at, updated_at
		FROM products ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list products")
	}

	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		product, err := fromProductRow(row)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, nil
}

func (r *productRepository) Delete(id uuid.UUID) error {
	_, err := r.ext.Exec(`DELETE FROM products WHERE id = ?`, id.String())
	return errors.Wrap(err, "delete product")
}

func toProductRow(product *model.Product) productRow {
	return productRow{
		ID:         product.ID.String(),
		Name:       product.Name,
		Quantity:   product.Quantity,
		PriceCents: product.PriceCents,
		CreatedAt:  product.CreatedAt,
		UpdatedAt:  product.UpdatedAt,
	}
}

func fromProductRow(row productRow) (*model.Product, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse product id")
	}
	return &model.Product{
		ID:         id,
		Name:       row.Name,
		Quantity:   row.Quantity,
		PriceCents: row.PriceCents,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}
