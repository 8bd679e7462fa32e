//go:build integration

package dbtest

import (
	"context"
	"testing"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/migrate"
)

const postgresImage = "postgres:17.6-alpine3.22"

// StartPostgres runs a disposable postgres container, applies the goose
// migrations and returns a client on it. Requires a Docker daemon.
func StartPostgres(t testing.TB) *db.Client {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, postgresImage,
		postgres.WithDatabase("carpenter"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("postgres connection string: %v", err)
	}
	conn, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("postgres handle: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	runner, err := migrate.NewRunner(sqlDB, migrate.Migrations(), nil)
	if err != nil {
		t.Fatalf("goose provider: %v", err)
	}
	if err := runner.Up(ctx); err != nil {
		t.Fatalf("migrate up: %v", err)
	}
	return db.Wrap(conn)
}
