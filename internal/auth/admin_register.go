package auth

import (
	"context"
	"errors"

	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/carpenter-backend/pkg/errors"
	"github.com/angelmondragon/carpenter-backend/pkg/security"
	"gorm.io/gorm"
)

// AdminRegisterRequest names the account to create or reset.
type AdminRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminRegisterService provisions CMS editors from the admin-user command.
type AdminRegisterService interface {
	// Register creates the admin. With reset set, an existing account gets
	// the new password and is reactivated instead of failing with a conflict.
	Register(ctx context.Context, req AdminRegisterRequest, reset bool) (*AdminDTO, error)
}

type AdminRegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type adminRegisterService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

func NewAdminRegisterService(params AdminRegisterServiceParams) (AdminRegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &adminRegisterService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *adminRegisterService) Register(ctx context.Context, req AdminRegisterRequest, reset bool) (*AdminDTO, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if err := security.ValidatePasswordStrength(req.Password); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var out *AdminDTO
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)

		existing, err := repo.FindByEmail(ctx, email)
		switch {
		case err == nil && !reset:
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		case err == nil:
			if err := repo.Reset(ctx, existing.ID, passwordHash); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reset admin")
			}
			existing.PasswordHash = passwordHash
			existing.IsActive = true
			out = FromModel(existing)
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check admin email")
		}

		admin := &models.AdminUser{Email: email, PasswordHash: passwordHash, IsActive: true}
		if err := repo.Create(ctx, admin); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create admin")
		}
		out = FromModel(admin)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
