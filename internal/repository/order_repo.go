package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// OrderRepository handles data access for orders.
type OrderRepository struct {
	db *sqlx.DB
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts a new order row.
func (r *OrderRepository) Create(order *models.Order) error {
	const q = `
        INSERT INTO orders (user_id, product_id, quantity, status, total_amount, payment_url, ref, expired_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		order.UserID,
		order.ProductID,
		order.Quantity,
		order.Status,
		order.TotalAmount,
		order.PaymentURL,
		order.Ref,
		order.ExpiredAt,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

// ListByUser returns a user's orders newest first, with product names projected.
func (r *OrderRepository) ListByUser(userID string) ([]models.Order, error) {
	const q = `
        SELECT o.*, p.name AS product_name
        FROM orders o
        JOIN products p ON p.id = o.product_id
        WHERE o.user_id = $1
        ORDER BY o.created_at DESC, o.id DESC`
	var orders []models.Order
	if err := r.db.Select(&orders, q, userID); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetByID returns an order by id.
func (r *OrderRepository) GetByID(id int) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE id = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, id); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetByRef returns an order by its reference code.
func (r *OrderRepository) GetByRef(ref string) (*models.Order, error) {
	const q = `SELECT * FROM orders WHERE ref = $1 LIMIT 1`
	var o models.Order
	if err := r.db.Get(&o, q, ref); err != nil {
		return nil, err
	}
	return &o, nil
}

// SetPaymentURL stores the gateway payment URL on an order.
func (r *OrderRepository) SetPaymentURL(id int, paymentURL string) error {
	const q = `UPDATE orders SET payment_url = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, paymentURL)
	return err
}

// UpdateStatus transitions an order to a new status. The transition only
// applies while the order is still pending so a late expiry sweep cannot
// clobber a settlement.
func (r *OrderRepository) UpdateStatus(id int, status models.OrderStatus) error {
	const q = `
        UPDATE orders SET status = $2, updated_at = NOW()
        WHERE id = $1 AND status = 'pending'`
	res, err := r.db.Exec(q, id, status)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// GetPendingWithPaymentURL returns pending orders that have a payment URL and
// have not yet expired. These are the candidates for gateway status polling.
func (r *OrderRepository) GetPendingWithPaymentURL(now time.Time) ([]models.Order, error) {
	const q = `
        SELECT * FROM orders
        WHERE status = 'pending' AND payment_url IS NOT NULL AND expired_at > $1
        ORDER BY created_at`
	var orders []models.Order
	if err := r.db.Select(&orders, q, now); err != nil {
		return nil, err
	}
	return orders, nil
}

// ExpirePastDue marks every pending order past its expiry as expired and
// returns the affected rows so callers can publish events for them.
func (r *OrderRepository) ExpirePastDue(now time.Time) ([]models.Order, error) {
	const q = `
        UPDATE orders SET status = 'expired', updated_at = NOW()
        WHERE status = 'pending' AND expired_at <= $1
        RETURNING *`
	var orders []models.Order
	if err := r.db.Select(&orders, q, now); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAdmin returns a page of all orders newest first with product names
// projected, plus the total count. Page begins at 1.
func (r *OrderRepository) ListAdmin(page, limit int) ([]models.Order, int, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	offset := (page - 1) * limit

	var total int
	if err := r.db.Get(&total, `SELECT COUNT(1) FROM orders`); err != nil {
		return nil, 0, err
	}

	const q = `
        SELECT o.*, p.name AS product_name
        FROM orders o
        JOIN products p ON p.id = o.product_id
        ORDER BY o.created_at DESC, o.id DESC
        LIMIT $1 OFFSET $2`
	var orders []models.Order
	if err := r.db.Select(&orders, q, limit, offset); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}
