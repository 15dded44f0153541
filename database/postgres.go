package database

import (
	"context"
	"database/sql"
	"errors"

	"electro_store/database/dbHelper"
	"electro_store/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// PostgresStore keeps every collection in Postgres. Read-modify-write runs
// inside a transaction with the row locked.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sqlx.DB { return s.db }

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) CreateUser(ctx context.Context, user model.User) error {
	return mapError(dbHelper.CreateUser(ctx, s.db, user))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (model.User, error) {
	user, err := dbHelper.GetUserByID(ctx, s.db, id)
	return user, mapError(err)
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	user, err := dbHelper.GetUserByEmail(ctx, s.db, email)
	return user, mapError(err)
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]model.User, error) {
	return dbHelper.GetAllUsers(ctx, s.db)
}

func (s *PostgresStore) UpdateUser(ctx context.Context, id string, fn func(*model.User) error) (model.User, error) {
	var user model.User
	err := Tx(s.db, func(tx *sqlx.Tx) error {
		var err error
		user, err = dbHelper.GetUserByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&user); err != nil {
			return err
		}
		user.ID = id
		return dbHelper.UpdateUser(ctx, tx, user)
	})
	if err != nil {
		return model.User{}, mapError(err)
	}
	return user, nil
}

func (s *PostgresStore) DeleteUser(ctx context.Context, id string) error {
	ok, err := dbHelper.DeleteUser(ctx, s.db, id)
	return deleted(ok, err)
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product model.Product) (model.Product, error) {
	id, err := dbHelper.CreateProduct(ctx, s.db, product)
	if err != nil {
		return model.Product{}, mapError(err)
	}
	product.ID = id
	return product, nil
}

func (s *PostgresStore) GetProduct(ctx context.Context, id int64) (model.Product, error) {
	p, err := dbHelper.GetProduct(ctx, s.db, id)
	return p, mapError(err)
}

func (s *PostgresStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	return dbHelper.GetAllProducts(ctx, s.db)
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id int64, fn func(*model.Product) error) (model.Product, error) {
	var p model.Product
	err := Tx(s.db, func(tx *sqlx.Tx) error {
		var err error
		p, err = dbHelper.GetProductForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&p); err != nil {
			return err
		}
		p.ID = id
		return dbHelper.UpdateProduct(ctx, tx, p)
	})
	if err != nil {
		return model.Product{}, mapError(err)
	}
	return p, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	ok, err := dbHelper.DeleteProduct(ctx, s.db, id)
	return deleted(ok, err)
}

func (s *PostgresStore) CreateOrder(ctx context.Context, order model.Order) error {
	return mapError(dbHelper.CreateOrder(ctx, s.db, order))
}

func (s *PostgresStore) GetOrder(ctx context.Context, id string) (model.Order, error) {
	o, err := dbHelper.GetOrder(ctx, s.db, id)
	return o, mapError(err)
}

func (s *PostgresStore) ListOrders(ctx context.Context) ([]model.Order, error) {
	return dbHelper.GetAllOrders(ctx, s.db)
}

func (s *PostgresStore) ListOrdersByCustomer(ctx context.Context, customerID string) ([]model.Order, error) {
	return dbHelper.GetOrdersByCustomer(ctx, s.db, customerID)
}

func (s *PostgresStore) UpdateOrder(ctx context.Context, id string, fn func(*model.Order) error) (model.Order, error) {
	var o model.Order
	err := Tx(s.db, func(tx *sqlx.Tx) error {
		var err error
		o, err = dbHelper.GetOrderForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(&o); err != nil {
			return err
		}
		o.ID = id
		return dbHelper.UpdateOrder(ctx, tx, o)
	})
	if err != nil {
		return model.Order{}, mapError(err)
	}
	return o, nil
}

func (s *PostgresStore) DeleteOrder(ctx context.Context, id string) error {
	ok, err := dbHelper.DeleteOrder(ctx, s.db, id)
	return deleted(ok, err)
}

func (s *PostgresStore) AddToWishlist(ctx context.Context, userID string, productID int64) error {
	return mapError(dbHelper.AddToWishlist(ctx, s.db, userID, productID))
}

func (s *PostgresStore) RemoveFromWishlist(ctx context.Context, userID string, productID int64) error {
	ok, err := dbHelper.RemoveFromWishlist(ctx, s.db, userID, productID)
	return deleted(ok, err)
}

func (s *PostgresStore) ListWishlist(ctx context.Context, userID string) ([]model.Product, error) {
	return dbHelper.GetWishlist(ctx, s.db, userID)
}

func deleted(ok bool, err error) error {
	if err != nil {
		return mapError(err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
