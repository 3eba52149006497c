package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// ProductRepository handles data access for products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns all products, newest first.
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	const q = `SELECT * FROM products ORDER BY created_at DESC, id DESC`
	var products []models.Product
	if err := r.db.Select(&products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetByID returns a single product by id.
func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE id = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// GetBySlug returns a single product by slug.
func (r *ProductRepository) GetBySlug(slug string) (*models.Product, error) {
	const q = `SELECT * FROM products WHERE slug = $1 LIMIT 1`
	var p models.Product
	if err := r.db.Get(&p, q, slug); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &p, nil
}

// Create creates a new product.
func (r *ProductRepository) Create(product *models.Product) error {
	const q = `
        INSERT INTO products (slug, name, description, image_url, type, price, promo_price, is_countdown_promotion, promo_end_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		product.Slug,
		product.Name,
		product.Description,
		product.ImageURL,
		product.Type,
		product.Price,
		product.PromoPrice,
		product.IsCountdownPromotion,
		product.PromoEndAt,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

// Update updates an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	const q = `
        UPDATE products
        SET slug = $1, name = $2, description = $3, image_url = $4, type = $5,
            price = $6, promo_price = $7, is_countdown_promotion = $8, promo_end_at = $9,
            updated_at = NOW()
        WHERE id = $10
        RETURNING updated_at`

	err := r.db.QueryRowx(q,
		product.Slug,
		product.Name,
		product.Description,
		product.ImageURL,
		product.Type,
		product.Price,
		product.PromoPrice,
		product.IsCountdownPromotion,
		product.PromoEndAt,
		product.ID,
	).Scan(&product.UpdatedAt)
	if err == sql.ErrNoRows {
		return sql.ErrNoRows
	}
	return err
}

// Delete deletes a product by ID. Link categories and links cascade.
func (r *ProductRepository) Delete(id string) error {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
