package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/angelmondragon/carpenter-backend/pkg/config"
	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/logger"
	"github.com/angelmondragon/carpenter-backend/pkg/migrate"
)

func main() {
	_ = godotenv.Load()
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

type tool struct {
	dir  string
	cfg  *config.Config
	logg *logger.Logger
}

func newRootCmd() *cobra.Command {
	t := &tool{}
	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage The Carpenter database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			t.cfg = cfg
			t.logg = logger.New(logger.Options{
				ServiceName: "migrate",
				Level:       logger.ParseLevel(cfg.App.LogLevel),
				WarnStack:   cfg.App.LogWarnStack,
			})
			return nil
		},
	}
	root.PersistentFlags().StringVar(&t.dir, "dir", "",
		"read migrations from this directory instead of the ones built into the binary")

	root.AddCommand(
		t.dbCmd("up", "Apply every pending migration", cobra.NoArgs,
			func(ctx context.Context, r *migrate.Runner, _ []string) error { return r.Up(ctx) }),
		t.dbCmd("down", "Roll back the latest migration", cobra.NoArgs,
			func(ctx context.Context, r *migrate.Runner, _ []string) error { return r.Down(ctx) }),
		t.dbCmd("to VERSION", "Migrate up or down to VERSION (YYYYMMDDHHMMSS)", cobra.ExactArgs(1),
			func(ctx context.Context, r *migrate.Runner, args []string) error {
				version, err := migrate.ParseVersion(args[0])
				if err != nil {
					return err
				}
				return r.To(ctx, version)
			}),
		t.dbCmd("status", "List migrations and whether they are applied", cobra.NoArgs, t.printStatus),
		t.automigrateCmd(),
		t.createCmd(),
		t.validateCmd(),
	)
	return root
}

func (t *tool) migrations() fs.FS {
	if t.dir != "" {
		return os.DirFS(t.dir)
	}
	return migrate.Migrations()
}

// dbCmd builds a subcommand that needs a goose runner on the configured
// postgres database.
func (t *tool) dbCmd(use, short string, args cobra.PositionalArgs,
	run func(context.Context, *migrate.Runner, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, argv []string) error {
			ctx := t.logg.WithFields(cmd.Context(), map[string]any{
				"env": t.cfg.App.Env,
				"cmd": cmd.Name(),
			})
			client, err := db.New(ctx, t.cfg.DB, t.logg)
			if err != nil {
				return t.fail(ctx, "database", err)
			}
			defer client.Close()

			// goose files are postgres-only; sqlite is built from the models
			if client.Driver() == db.DriverSQLite {
				t.logg.Warn(ctx, "migrate.sqlite_automigrate")
				return migrate.AutoMigrate(ctx, client)
			}

			sqlDB, err := client.DB().DB()
			if err != nil {
				return t.fail(ctx, "sql handle", err)
			}
			runner, err := migrate.NewRunner(sqlDB, t.migrations(), t.logg)
			if err != nil {
				return t.fail(ctx, "goose provider", err)
			}
			if err := run(ctx, runner, argv); err != nil {
				return t.fail(ctx, cmd.Name(), err)
			}
			t.logg.Info(ctx, "migrate.done")
			return nil
		},
	}
}

func (t *tool) printStatus(ctx context.Context, r *migrate.Runner, _ []string) error {
	rows, err := r.Status(ctx)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tFILE\tAPPLIED AT")
	for _, row := range rows {
		applied := "pending"
		if row.Applied {
			applied = row.AppliedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", row.Version, row.File, applied)
	}
	return w.Flush()
}

func (t *tool) automigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "automigrate",
		Short: "Create or update tables from the gorm models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			client, err := db.New(ctx, t.cfg.DB, t.logg)
			if err != nil {
				return t.fail(ctx, "database", err)
			}
			defer client.Close()
			return migrate.AutoMigrate(ctx, client)
		},
	}
}

func (t *tool) createCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create NAME",
		Short: "Write an empty SQL migration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := t.dir
			if dir == "" {
				dir = migrate.DefaultDir
			}
			path, err := migrate.Create(dir, args[0], time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "created", path)
			return nil
		},
	}
}

func (t *tool) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check migration file names and goose sections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := migrate.Validate(t.migrations()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations ok")
			return nil
		},
	}
}

func (t *tool) fail(ctx context.Context, step string, err error) error {
	t.logg.Error(ctx, "migrate.failed", fmt.Errorf("%s: %w", step, err))
	return err
}
