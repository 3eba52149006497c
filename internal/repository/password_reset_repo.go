package repository

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/KanalKids/kanalkids_api/internal/models"
)

// PasswordResetRepository handles data access for password reset tokens.
type PasswordResetRepository struct {
	db *sqlx.DB
}

// NewPasswordResetRepository creates a new PasswordResetRepository.
func NewPasswordResetRepository(db *sqlx.DB) *PasswordResetRepository {
	return &PasswordResetRepository{db: db}
}

// Create stores a new reset token.
func (r *PasswordResetRepository) Create(reset *models.PasswordReset) error {
	const q = `
        INSERT INTO password_resets (token, user_id, expires_at)
        VALUES ($1, $2, $3)
        RETURNING created_at`
	return r.db.QueryRowx(q, reset.Token, reset.UserID, reset.ExpiresAt).Scan(&reset.CreatedAt)
}

// GetValid returns an unused, unexpired token or sql.ErrNoRows.
func (r *PasswordResetRepository) GetValid(token string, now time.Time) (*models.PasswordReset, error) {
	const q = `
        SELECT * FROM password_resets
        WHERE token = $1 AND used = false AND expires_at > $2
        LIMIT 1`
	var reset models.PasswordReset
	if err := r.db.Get(&reset, q, token, now); err != nil {
		return nil, err
	}
	return &reset, nil
}

// MarkUsed consumes a token.
func (r *PasswordResetRepository) MarkUsed(token string) error {
	_, err := r.db.Exec(`UPDATE password_resets SET used = true WHERE token = $1`, token)
	return err
}
