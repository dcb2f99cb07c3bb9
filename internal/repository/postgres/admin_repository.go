package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"
)

const adminUsernameConstraint = "admins_username_key"

type adminRepository struct {
	db *sql.DB
}

// Create inserts the admin; the unique constraint guards the username
func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	query := `
		INSERT INTO admins (id, username, password_hash, email)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.ExecContext(ctx, query, admin.ID, admin.Username, admin.PasswordHash, admin.Email)
	if err != nil {
		if isUniqueViolation(err, adminUsernameConstraint) {
			return domain.ErrAdminAlreadyExists
		}
		if vErr := columnOverflow(err); vErr != nil {
			return vErr
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// FindByUsername retrieves an admin by username
func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	query := `
		SELECT id, username, password_hash, email
		FROM admins
		WHERE username = $1
	`

	admin := &domain.Admin{}
	err := r.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID,
		&admin.Username,
		&admin.PasswordHash,
		&admin.Email,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin by username: %w", err)
	}
	return admin, nil
}

// SetPasswordHash replaces the stored credential
func (r *adminRepository) SetPasswordHash(ctx context.Context, username, passwordHash string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = $2 WHERE username = $1`, username, passwordHash)
	if err != nil {
		if vErr := columnOverflow(err); vErr != nil {
			return vErr
		}
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	return checkRowsAffected(result, domain.ErrAdminNotFound)
}
