package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// LinkRepository handles data access for links.
type LinkRepository struct {
	db *sqlx.DB
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(db *sqlx.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// GetByCategoryID returns the links of a category ordered by display order.
func (r *LinkRepository) GetByCategoryID(categoryID string) ([]models.Link, error) {
	const q = `
        SELECT * FROM links
        WHERE category_id = $1
        ORDER BY display_order, id`
	var links []models.Link
	if err := r.db.Select(&links, q, categoryID); err != nil {
		return nil, err
	}
	return links, nil
}

// GetByProductID returns all links under a product, grouped by the same
// ordering the detail view uses. Used to hydrate a full catalog detail in
// two queries instead of one per category.
func (r *LinkRepository) GetByProductID(productID string) ([]models.Link, error) {
	const q = `
        SELECT l.* FROM links l
        JOIN link_categories c ON c.id = l.category_id
        WHERE c.product_id = $1
        ORDER BY c.display_order, c.id, l.display_order, l.id`
	var links []models.Link
	if err := r.db.Select(&links, q, productID); err != nil {
		return nil, err
	}
	return links, nil
}

// GetByID returns a single link by id.
func (r *LinkRepository) GetByID(id string) (*models.Link, error) {
	const q = `SELECT * FROM links WHERE id = $1 LIMIT 1`
	var link models.Link
	if err := r.db.Get(&link, q, id); err != nil {
		return nil, err
	}
	return &link, nil
}

// Create creates a new link.
func (r *LinkRepository) Create(link *models.Link) error {
	const q = `
        INSERT INTO links (category_id, name, url, description, display_order)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`
	return r.db.QueryRowx(q, link.CategoryID, link.Name, link.URL, link.Description, link.DisplayOrder).
		Scan(&link.ID, &link.CreatedAt)
}

// Update updates an existing link.
func (r *LinkRepository) Update(link *models.Link) error {
	const q = `
        UPDATE links
        SET name = $1, url = $2, description = $3, display_order = $4
        WHERE id = $5`
	res, err := r.db.Exec(q, link.Name, link.URL, link.Description, link.DisplayOrder, link.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete deletes a link by ID.
func (r *LinkRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
