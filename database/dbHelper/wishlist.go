package dbHelper

import (
	"context"

	"electro_store/model"

	"github.com/jmoiron/sqlx"
)

func AddToWishlist(ctx context.Context, db sqlx.ExtContext, userID string, productID int64) error {
	SQL := `INSERT INTO wishlist_items(user_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	_, err := db.ExecContext(ctx, SQL, userID, productID)
	return err
}

func RemoveFromWishlist(ctx context.Context, db sqlx.ExtContext, userID string, productID int64) (bool, error) {
	SQL := `DELETE FROM wishlist_items WHERE user_id = $1 AND product_id = $2`
	res, err := db.ExecContext(ctx, SQL, userID, productID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func GetWishlist(ctx context.Context, db sqlx.ExtContext, userID string) ([]model.Product, error) {
	SQL := `SELECT p.id, p.name, p.image, p.current_price, p.original_price, p.discount, p.rating, p.reviews,
				p.description, p.category, p.in_stock, p.features, p.created_at, p.updated_at
			FROM wishlist_items w
				JOIN products p ON p.id = w.product_id
			WHERE w.user_id = $1
			ORDER BY w.created_at, p.id`
	list := make([]model.Product, 0)
	err := sqlx.SelectContext(ctx, db, &list, SQL, userID)
	return list, err
}
