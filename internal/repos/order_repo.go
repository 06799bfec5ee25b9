package repos

import (
	"context"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderCols = `CAST(id AS TEXT) AS id, product_id, name, quantity, price, date`

// Create appends an order record and returns it with the assigned id.
func (r *OrderRepo) Create(ctx context.Context, o domain.OrderRecord) (domain.OrderRecord, error) {
	res, err := r.db.ExecContext(ctx, `
	  INSERT INTO orders(product_id, name, quantity, price, date)
	  VALUES(?, ?, ?, ?, ?)
	`, string(o.ProductID), o.Name, o.Quantity, o.Price, o.Date)
	if err != nil {
		return domain.OrderRecord{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.OrderRecord{}, err
	}
	var created domain.OrderRecord
	err = r.db.GetContext(ctx, &created, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	return created, err
}

// ListLatest returns the newest records first.
func (r *OrderRepo) ListLatest(ctx context.Context, limit int) ([]domain.OrderRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	out := []domain.OrderRecord{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+orderCols+`
		FROM orders
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	return out, err
}
