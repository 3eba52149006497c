package repository

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// UserRepository handles data access for buyer accounts.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByEmail returns a user by email (case-insensitive).
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE lower(email) = lower($1) LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, err
	}
	return &u, nil
}

// GetByID returns a user by id.
func (r *UserRepository) GetByID(id string) (*models.User, error) {
	const q = `SELECT * FROM users WHERE id = $1 LIMIT 1`
	var u models.User
	if err := r.db.Get(&u, q, id); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. Emails are stored lowercased.
func (r *UserRepository) Create(user *models.User) error {
	const q = `
        INSERT INTO users (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.db.QueryRowx(q, user.Name, strings.ToLower(user.Email), user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepository) UpdatePassword(id, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(q, id, passwordHash)
	return err
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// used to turn duplicate-email inserts into a domain error.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
