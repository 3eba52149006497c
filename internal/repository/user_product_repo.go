package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// UserProductRepository handles data access for ownership records.
type UserProductRepository struct {
	db *sqlx.DB
}

// NewUserProductRepository creates a new UserProductRepository.
func NewUserProductRepository(db *sqlx.DB) *UserProductRepository {
	return &UserProductRepository{db: db}
}

// ListByUser returns all ownership records of a user.
func (r *UserProductRepository) ListByUser(userID string) ([]models.UserProduct, error) {
	const q = `SELECT * FROM user_products WHERE user_id = $1 ORDER BY created_at DESC`
	var ups []models.UserProduct
	if err := r.db.Select(&ups, q, userID); err != nil {
		return nil, err
	}
	return ups, nil
}

// CountByUser returns the number of products a user owns.
func (r *UserProductRepository) CountByUser(userID string) (int, error) {
	var n int
	if err := r.db.Get(&n, `SELECT COUNT(1) FROM user_products WHERE user_id = $1`, userID); err != nil {
		return 0, err
	}
	return n, nil
}

// GetByID returns an ownership record by id.
func (r *UserProductRepository) GetByID(id string) (*models.UserProduct, error) {
	const q = `SELECT * FROM user_products WHERE id = $1 LIMIT 1`
	var up models.UserProduct
	if err := r.db.Get(&up, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &up, nil
}

// CreateFromOrder records ownership for a settled order. The unique
// constraint on order_id makes settlement idempotent: replaying the same
// settlement does not create a second record.
func (r *UserProductRepository) CreateFromOrder(order *models.Order) error {
	const q = `
        INSERT INTO user_products (user_id, product_id, order_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (order_id) DO NOTHING`
	_, err := r.db.Exec(q, order.UserID, order.ProductID, order.ID)
	return err
}
