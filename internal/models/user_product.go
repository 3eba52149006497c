package models

import "time"

// UserProduct is the ownership record linking a buyer to a purchased product.
// Rows are inserted by the payment sync worker when an order settles, never
// directly by a request handler.
type UserProduct struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	ProductID string    `db:"product_id" json:"productId"`
	OrderID   int       `db:"order_id" json:"orderId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
