package repos

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"storefront/internal/domain"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

const productCols = `CAST(id AS TEXT) AS id, name, category, description, price, quantity, image`

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+productCols+` FROM products ORDER BY id`)
	return out, err
}

func (r *ProductRepo) Get(ctx context.Context, id domain.ProductID) (domain.Product, error) {
	var p domain.Product
	err := r.db.GetContext(ctx, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	return p, err
}

// Create inserts p and returns it with the assigned id.
func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO products(name, category, description, price, quantity, image)
		VALUES(?, ?, ?, ?, ?, ?)
	`, p.Name, p.Category, p.Description, p.Price, p.Quantity, p.Image)
	if err != nil {
		return domain.Product{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Product{}, err
	}
	var created domain.Product
	err = r.db.GetContext(ctx, &created, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return created, err
}

func (r *ProductRepo) Replace(ctx context.Context, id domain.ProductID, p domain.Product) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = ?, category = ?, description = ?, price = ?, quantity = ?, image = ?,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, p.Name, p.Category, p.Description, p.Price, p.Quantity, p.Image, string(id))
	if err != nil {
		return domain.Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, ErrProductNotFound
	}
	return r.Get(ctx, id)
}

// SetQuantity overwrites the stock level. The caller computes the new value.
func (r *ProductRepo) SetQuantity(ctx context.Context, id domain.ProductID, qty int) (domain.Product, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET quantity = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, qty, string(id))
	if err != nil {
		return domain.Product{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Product{}, ErrProductNotFound
	}
	return r.Get(ctx, id)
}

func (r *ProductRepo) Delete(ctx context.Context, id domain.ProductID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}
