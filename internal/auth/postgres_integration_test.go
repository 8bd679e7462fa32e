//go:build integration

package auth

import (
	"context"
	"testing"

	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/db/dbtest"
	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
)

func TestAdminEmailUniqueOnPostgres(t *testing.T) {
	ctx := context.Background()
	client := dbtest.StartPostgres(t)
	repo := NewRepository(client.DB())

	if err := repo.Create(ctx, &models.AdminUser{Email: "owner@thecarpenter.example", PasswordHash: "x", IsActive: true}); err != nil {
		t.Fatalf("create admin: %v", err)
	}
	err := repo.Create(ctx, &models.AdminUser{Email: "owner@thecarpenter.example", PasswordHash: "y", IsActive: true})
	if !db.IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
}
