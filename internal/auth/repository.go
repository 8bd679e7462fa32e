package auth

import (
	"context"
	"time"

	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads and writes CMS admin accounts.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) FindByID(ctx context.Context, id uint) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) Create(ctx context.Context, admin *models.AdminUser) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// Reset sets a new password hash and reactivates the account.
func (r *Repository) Reset(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Updates(map[string]any{
		"password_hash": hash,
		"is_active":     true,
	}).Error
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("password_hash", hash).Error
}

func (r *Repository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.AdminUser{}).Where("id = ?", id).Update("last_login_at", at).Error
}
