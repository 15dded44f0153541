package dbHelper

import (
	"context"

	"electro_store/model"

	"github.com/jmoiron/sqlx"
)

const userColumns = `id, name, email, password, phone, shipping_address, is_admin, is_active, is_blocked, created_at`

func CreateUser(ctx context.Context, db sqlx.ExtContext, user model.User) error {
	SQL := `INSERT INTO users(id, name, email, password, phone, shipping_address, is_admin, is_active, is_blocked, created_at)
			VALUES ($1, $2, TRIM(LOWER($3)), $4, $5, $6, $7, $8, $9, $10)`
	_, err := db.ExecContext(ctx, SQL, user.ID, user.Name, user.Email, user.Password, user.Phone,
		user.ShippingAddress, user.IsAdmin, user.IsActive, user.IsBlocked, user.CreatedAt)
	return err
}

func GetUserByID(ctx context.Context, db sqlx.ExtContext, userID string) (model.User, error) {
	SQL := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	var user model.User
	err := sqlx.GetContext(ctx, db, &user, SQL, userID)
	return user, err
}

// GetUserByIDForUpdate locks the row until the surrounding transaction ends.
func GetUserByIDForUpdate(ctx context.Context, db sqlx.ExtContext, userID string) (model.User, error) {
	SQL := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`
	var user model.User
	err := sqlx.GetContext(ctx, db, &user, SQL, userID)
	return user, err
}

func GetUserByEmail(ctx context.Context, db sqlx.ExtContext, email string) (model.User, error) {
	SQL := `SELECT ` + userColumns + ` FROM users WHERE email = TRIM(LOWER($1))`
	var user model.User
	err := sqlx.GetContext(ctx, db, &user, SQL, email)
	return user, err
}

func GetAllUsers(ctx context.Context, db sqlx.ExtContext) ([]model.User, error) {
	SQL := `SELECT ` + userColumns + ` FROM users ORDER BY created_at, id`
	list := make([]model.User, 0)
	err := sqlx.SelectContext(ctx, db, &list, SQL)
	return list, err
}

func UpdateUser(ctx context.Context, db sqlx.ExtContext, user model.User) error {
	SQL := `UPDATE users
			SET name = $2,
				email = TRIM(LOWER($3)),
				password = $4,
				phone = $5,
				shipping_address = $6,
				is_admin = $7,
				is_active = $8,
				is_blocked = $9
			WHERE id = $1`
	_, err := db.ExecContext(ctx, SQL, user.ID, user.Name, user.Email, user.Password, user.Phone,
		user.ShippingAddress, user.IsAdmin, user.IsActive, user.IsBlocked)
	return err
}

// DeleteUser reports whether a row was removed. Wishlist rows cascade.
func DeleteUser(ctx context.Context, db sqlx.ExtContext, userID string) (bool, error) {
	SQL := `DELETE FROM users WHERE id = $1`
	res, err := db.ExecContext(ctx, SQL, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
