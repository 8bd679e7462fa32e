package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/db/models"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
)

// MaybeRunDev brings the schema up to date on startup in dev when
// CARPENTER_AUTO_MIGRATE is set. SQLite gets gorm's AutoMigrate because the
// SQL files are written for postgres.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}
	ctx = logg.WithField(ctx, "driver", client.Driver())

	if client.Driver() == db.DriverSQLite {
		logg.Info(ctx, "migrate.automigrate_start")
		return AutoMigrate(ctx, client)
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("migrate: sql handle: %w", err)
	}
	runner, err := NewRunner(sqlDB, Migrations(), logg)
	if err != nil {
		return err
	}
	logg.Info(ctx, "migrate.dev_up_start")
	return runner.Up(ctx)
}

// AutoMigrate creates or updates every table from the gorm models.
func AutoMigrate(ctx context.Context, client *db.Client) error {
	if err := client.DB().WithContext(ctx).AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("gorm auto-migrate: %w", err)
	}
	return nil
}
