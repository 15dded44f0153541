package dbHelper

import (
	"context"

	"electro_store/model"

	"github.com/jmoiron/sqlx"
)

const productColumns = `id, name, image, current_price, original_price, discount, rating, reviews, description,
	category, in_stock, features, created_at, updated_at`

func CreateProduct(ctx context.Context, db sqlx.ExtContext, p model.Product) (int64, error) {
	SQL := `INSERT INTO products(name, image, current_price, original_price, discount, rating, reviews, description,
				category, in_stock, features, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id`
	features := p.Features
	if features == nil {
		features = []string{}
	}
	var id int64
	err := db.QueryRowxContext(ctx, SQL, p.Name, p.Image, p.CurrentPrice, p.OriginalPrice, p.Discount, p.Rating,
		p.Reviews, p.Description, p.Category, p.InStock, features, p.CreatedAt, p.UpdatedAt).Scan(&id)
	return id, err
}

func GetProduct(ctx context.Context, db sqlx.ExtContext, id int64) (model.Product, error) {
	SQL := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	var p model.Product
	err := sqlx.GetContext(ctx, db, &p, SQL, id)
	return p, err
}

func GetProductForUpdate(ctx context.Context, db sqlx.ExtContext, id int64) (model.Product, error) {
	SQL := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	var p model.Product
	err := sqlx.GetContext(ctx, db, &p, SQL, id)
	return p, err
}

func GetAllProducts(ctx context.Context, db sqlx.ExtContext) ([]model.Product, error) {
	SQL := `SELECT ` + productColumns + ` FROM products ORDER BY id`
	list := make([]model.Product, 0)
	err := sqlx.SelectContext(ctx, db, &list, SQL)
	return list, err
}

func UpdateProduct(ctx context.Context, db sqlx.ExtContext, p model.Product) error {
	SQL := `UPDATE products
			SET name = $2,
				image = $3,
				current_price = $4,
				original_price = $5,
				discount = $6,
				rating = $7,
				reviews = $8,
				description = $9,
				category = $10,
				in_stock = $11,
				features = $12,
				updated_at = $13
			WHERE id = $1`
	features := p.Features
	if features == nil {
		features = []string{}
	}
	_, err := db.ExecContext(ctx, SQL, p.ID, p.Name, p.Image, p.CurrentPrice, p.OriginalPrice, p.Discount,
		p.Rating, p.Reviews, p.Description, p.Category, p.InStock, features, p.UpdatedAt)
	return err
}

// DeleteProduct reports whether a row was removed. Wishlist rows cascade.
func DeleteProduct(ctx context.Context, db sqlx.ExtContext, id int64) (bool, error) {
	SQL := `DELETE FROM products WHERE id = $1`
	res, err := db.ExecContext(ctx, SQL, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
