package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/carpenter-backend/internal/auth"
	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/security"
)

const tempPasswordLength = 20

func main() {
	logg := logger.New(logger.Options{ServiceName: "admin-user"})

	_ = godotenv.Load()

	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password; a temporary one is generated when empty")
	reset := flag.Bool("reset", false, "replace the password of an existing admin and reactivate it")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "admin-user",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env, "reset": *reset})

	generated := false
	if *password == "" {
		*password, err = security.GenerateTempPassword(tempPasswordLength)
		requireResource(ctx, logg, "password generator", err)
		generated = true
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	svc, err := auth.NewAdminRegisterService(auth.AdminRegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	requireResource(ctx, logg, "admin register service", err)

	admin, err := svc.Register(ctx, auth.AdminRegisterRequest{Email: *email, Password: *password}, *reset)
	if err != nil {
		logg.Error(ctx, "admin registration failed", err)
		fmt.Fprintf(os.Stderr, "admin registration failed: %v\n", err)
		os.Exit(1)
	}

	logg.Info(logg.WithAdminID(ctx, fmt.Sprint(admin.ID)), "admin user ready")
	fmt.Printf("admin %s (id %d) ready\n", admin.Email, admin.ID)
	if generated {
		fmt.Printf("temporary password: %s\n", *password)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
