package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/anudeepvarma123/TalentTrack/internal/models"
)

// CredentialRepository stores login credentials in the credentials table.
type CredentialRepository struct {
	db *sql.DB
}

func NewCredentialRepository(db *sql.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// FindByEmail returns nil, nil when no credential matches the exact email.
func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query := `
		SELECT id, email, password_hash, role, active, created_at, updated_at
		FROM credentials
		WHERE email = ?`

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &c.Role, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find credential by email: %w", err)
	}
	return c, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// insertCredential writes c through ex (the pool or an open transaction) and
// sets its ID.
func insertCredential(ctx context.Context, ex execer, c *models.Credential) error {
	query := `
		INSERT INTO credentials (email, password_hash, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	res, err := ex.ExecContext(ctx, query, c.Email, c.PasswordHash, string(c.Role), c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert credential: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("credential insert id: %w", err)
	}
	c.ID = id
	return nil
}

// UpdatePasswordHash replaces the hash for email. It reports false when no
// credential matched.
func (r *CredentialRepository) UpdatePasswordHash(ctx context.Context, email, hash string) (bool, error) {
	query := `
		UPDATE credentials
		SET password_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE email = ?`

	res, err := r.db.ExecContext(ctx, query, hash, email)
	if err != nil {
		return false, fmt.Errorf("update password hash: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update password hash rows: %w", err)
	}
	return n > 0, nil
}
