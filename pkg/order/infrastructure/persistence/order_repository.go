package persistence

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"marketplace/pkg/order/domain/model"
)

func NewOrderRepository(db *sqlx.DB) model.OrderRepository {
	return &orderRepository{db: db}
}

type orderRepository struct {
	db *sqlx.DB
}

type orderRow struct {
	ID              string    `db:"id"`
	ProductID       string    `db:"product_id"`
	Quantity        int       `db:"quantity"`
	TotalPriceCents int64     `db:"total_price_cents"`
	Version         int       `db:"version"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *orderRepository) Create(order *model.Order) error {
	_, err := r.db.NamedExec(`
		INSERT INTO orders (id, product_id, quantity, total_price_cents, version, created_at, updated_at)
		VALUES (:id, :product_id, :quantity, :total_price_cents, :version, :created_at, :updated_at)`,
		toOrderRow(order),
	)
	return errors.Wrap(err, "insert order")
}

func (r *orderRepository) Update(order *model.Order) error {
	result, err := r.db.NamedExec(`
		UPDATE orders
		SET product_id = :product_id, quantity = :quantity, total_price_cents = :total_price_cents,
		    version = :version, updated_at = :updated_at
		WHERE id = :id`,
		toOrderRow(order),
	)
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update order")
	}
	if affected == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) Find(id uuid.UUID) (*model.Order, error) {
	var row orderRow
	err := r.db.Get(&row, `
		SELECT id, product_id, quantity, total_price_cents, version, created_at, updated_at
		FROM orders WHERE id = ?`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrOrderNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "find order")
	}
	return fromOrderRow(row)
}

func (r *orderRepository) FindAll() ([]model.Order, error) {
	var rows []orderRow
	err := r.db.Select(&rows, `
		SELECT id, product_id, quantity, total_price_cents, version, created_at, updated_at
		FROM orders ORDER BY created_at`)
	if err != nil {
		return nil, errors.Wrap(err, "list orders")
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		order, err := fromOrderRow(row)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	return orders, nil
}

func (r *orderRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM orders WHERE id = ?`, id.String())
	return errors.Wrap(err, "delete order")
}

func toOrderRow(order *model.Order) orderRow {
	return orderRow{
		ID:              order.ID.String(),
		ProductID:       order.ProductID.String(),
		Quantity:        order.Quantity,
		TotalPriceCents: order.TotalPriceCents,
		Version:         order.Version,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}

func fromOrderRow(row orderRow) (*model.Order, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order id")
	}
	productID, err := uuid.Parse(row.ProductID)
	if err != nil {
		return nil, errors.Wrap(err, "parse order product id")
	}
	return &model.Order{
		ID:              id,
		ProductID:       productID,
		Quantity:        row.Quantity,
		TotalPriceCents: row.TotalPriceCents,
		Version:         row.Version,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}, nil
}
