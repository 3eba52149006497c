package models

import "time"

// OrderStatus enumerates the lifecycle states of a purchase attempt.
// Status values are lowercase on the wire and in the database.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusCancelled OrderStatus = "cancelled"
	OrderStatusExpired   OrderStatus = "expired"
)

// Order captures a purchase attempt for a single product. The payment URL is
// issued by the payment gateway and the order stays pending until the gateway
// reports settlement or the expiry worker times it out.
type Order struct {
	ID          int         `db:"id" json:"id"`
	UserID      string      `db:"user_id" json:"userId"`
	ProductID   string      `db:"product_id" json:"productId"`
	Quantity    int         `db:"quantity" json:"quantity"`
	Status      OrderStatus `db:"status" json:"status"`
	TotalAmount int         `db:"total_amount" json:"totalAmount"`
	PaymentURL  *string     `db:"payment_url" json:"paymentUrl,omitempty"`
	Ref         string      `db:"ref" json:"ref"`
	ExpiredAt   time.Time   `db:"expired_at" json:"expiredAt"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"-"`

	// Projected via join on list queries.
	ProductName string `db:"product_name" json:"productName,omitempty"`
}
