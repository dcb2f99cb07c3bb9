package sqlite

import (
	"context"
	"errors"
	"fmt"

	"stationery-catalog/internal/domain"

	"gorm.io/gorm"
)

type adminRepository struct {
	db *gorm.DB
}

// Create saves the admin; the unique index guards the username
func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	m := &adminModel{
		ID:           admin.ID.String(),
		Username:     admin.Username,
		PasswordHash: admin.PasswordHash,
		Email:        admin.Email,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return domain.ErrAdminAlreadyExists
		}
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// FindByUsername retrieves an admin by username
func (r *adminRepository) FindByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var m adminModel
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	return toAdmin(&m), nil
}

// SetPasswordHash replaces the stored credential
func (r *adminRepository) SetPasswordHash(ctx context.Context, username, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&adminModel{}).
		Where("username = ?", username).
		Update("password_hash", passwordHash)
	if err := result.Error; err != nil {
		return fmt.Errorf("failed to set admin password: %w", err)
	}
	if result.RowsAffected == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}
