package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// LinkCategoryRepository handles data access for link categories.
type LinkCategoryRepository struct {
	db *sqlx.DB
}

// NewLinkCategoryRepository creates a new LinkCategoryRepository.
func NewLinkCategoryRepository(db *sqlx.DB) *LinkCategoryRepository {
	return &LinkCategoryRepository{db: db}
}

// GetByProductID returns the categories of a product ordered by display order.
// Ties on display_order fall back to id so the ordering is stable.
func (r *LinkCategoryRepository) GetByProductID(productID string) ([]models.LinkCategory, error) {
	const q = `
        SELECT * FROM link_categories
        WHERE product_id = $1
        ORDER BY display_order, id`
	var categories []models.LinkCategory
	if err := r.db.Select(&categories, q, productID); err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByID returns a single category by id.
func (r *LinkCategoryRepository) GetByID(id string) (*models.LinkCategory, error) {
	const q = `SELECT * FROM link_categories WHERE id = $1 LIMIT 1`
	var cat models.LinkCategory
	if err := r.db.Get(&cat, q, id); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Create creates a new link category.
func (r *LinkCategoryRepository) Create(cat *models.LinkCategory) error {
	const q = `
        INSERT INTO link_categories (product_id, name, description, display_order)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.db.QueryRowx(q, cat.ProductID, cat.Name, cat.Description, cat.DisplayOrder).
		Scan(&cat.ID, &cat.CreatedAt)
}

// Update updates an existing link category.
func (r *LinkCategoryRepository) Update(cat *models.LinkCategory) error {
	const q = `
        UPDATE link_categories
        SET name = $1, description = $2, display_order = $3
        WHERE id = $4`
	res, err := r.db.Exec(q, cat.Name, cat.Description, cat.DisplayOrder, cat.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete deletes a link category by ID. Links cascade.
func (r *LinkCategoryRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM link_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
