package dbHelper

import (
	"context"

	"electro_store/model"

	"github.com/jmoiron/sqlx"
)

const orderColumns = `id, customer_id, customer_name, customer_email, customer_phone, items, shipping_address,
	payment_method, subtotal, delivery_fee, total, status, payment_status, order_date, estimated_delivery,
	tracking_number, notes`

func CreateOrder(ctx context.Context, db sqlx.ExtContext, o model.Order) error {
	SQL := `INSERT INTO orders(` + orderColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := db.ExecContext(ctx, SQL, o.ID, o.CustomerID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
		o.Items, o.ShippingAddress, o.PaymentMethod, o.Subtotal, o.DeliveryFee, o.Total, o.Status,
		o.PaymentStatus, o.OrderDate, o.EstimatedDelivery, o.TrackingNumber, o.Notes)
	return err
}

func GetOrder(ctx context.Context, db sqlx.ExtContext, orderID string) (model.Order, error) {
	SQL := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	var o model.Order
	err := sqlx.GetContext(ctx, db, &o, SQL, orderID)
	return o, err
}

func GetOrderForUpdate(ctx context.Context, db sqlx.ExtContext, orderID string) (model.Order, error) {
	SQL := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1 FOR UPDATE`
	var o model.Order
	err := sqlx.GetContext(ctx, db, &o, SQL, orderID)
	return o, err
}

func GetAllOrders(ctx context.Context, db sqlx.ExtContext) ([]model.Order, error) {
	SQL := `SELECT ` + orderColumns + ` FROM orders ORDER BY order_date DESC, id`
	list := make([]model.Order, 0)
	err := sqlx.SelectContext(ctx, db, &list, SQL)
	return list, err
}

func GetOrdersByCustomer(ctx context.Context, db sqlx.ExtContext, customerID string) ([]model.Order, error) {
	SQL := `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY order_date DESC, id`
	list := make([]model.Order, 0)
	err := sqlx.SelectContext(ctx, db, &list, SQL, customerID)
	return list, err
}

// UpdateOrder writes back the mutable lifecycle fields only.
func UpdateOrder(ctx context.Context, db sqlx.ExtContext, o model.Order) error {
	SQL := `UPDATE orders
			SET status = $2,
				payment_status = $3,
				tracking_number = $4,
				notes = $5,
				estimated_delivery = $6
			WHERE id = $1`
	_, err := db.ExecContext(ctx, SQL, o.ID, o.Status, o.PaymentStatus, o.TrackingNumber, o.Notes, o.EstimatedDelivery)
	return err
}

func DeleteOrder(ctx context.Context, db sqlx.ExtContext, orderID string) (bool, error) {
	SQL := `DELETE FROM orders WHERE id = $1`
	res, err := db.ExecContext(ctx, SQL, orderID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
