package migrate_test

import (
	"context"
	"io/fs"
	"os"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/carpenter-backend/pkg/db"
	"github.com/angelmondragon/carpenter-backend/pkg/migrate"
)

func TestEmbeddedMigrationsValidate(t *testing.T) {
	if err := migrate.Validate(migrate.Migrations()); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestEmbeddedMigrationsMatchSourceTree(t *testing.T) {
	embedded, err := fs.Glob(migrate.Migrations(), "*.sql")
	if err != nil {
		t.Fatalf("glob embedded: %v", err)
	}
	onDisk, err := fs.Glob(os.DirFS("migrations"), "*.sql")
	if err != nil {
		t.Fatalf("glob dir: %v", err)
	}
	if strings.Join(embedded, ",") != strings.Join(onDisk, ",") {
		t.Fatalf("embedded %v, on disk %v", embedded, onDisk)
	}
}

func TestProductsMigrationSchema(t *testing.T) {
	matches, _ := fs.Glob(migrate.Migrations(), "*_create_products.sql")
	if len(matches) != 1 {
		t.Fatalf("want one products migration, got %v", matches)
	}
	body, err := fs.ReadFile(migrate.Migrations(), matches[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{
		"CREATE TABLE IF NOT EXISTS products",
		"dimensions JSONB NOT NULL",
		"REFERENCES categories(id)",
		"CREATE TABLE IF NOT EXISTS product_images",
		"idx_product_images_product_position",
		"DROP TABLE IF EXISTS products",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("products migration lacks %q", want)
		}
	}
}

func TestValidateRejects(t *testing.T) {
	section := []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")
	cases := map[string]fstest.MapFS{
		"bad name": {
			"create_things.sql": {Data: section},
		},
		"duplicate version": {
			"20260101000000_a.sql": {Data: section},
			"20260101000000_b.sql": {Data: section},
		},
		"missing down": {
			"20260101000000_a.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n")},
		},
	}
	for name, fsys := range cases {
		t.Run(name, func(t *testing.T) {
			if err := migrate.Validate(fsys); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestCreateWritesValidMigration(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	path, err := migrate.Create(dir, "Add Page SEO!", now)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasSuffix(path, "20260314092653_add_page_seo.sql") {
		t.Fatalf("unexpected path %s", path)
	}
	if err := migrate.Validate(os.DirFS(dir)); err != nil {
		t.Fatalf("generated migration should validate: %v", err)
	}

	if _, err := migrate.Create(dir, "add page seo", now); err == nil {
		t.Fatal("second create with the same version should fail")
	}
	if _, err := migrate.Create(dir, "!!!", now); err == nil {
		t.Fatal("name without letters should fail")
	}
}

func TestParseVersion(t *testing.T) {
	if v, err := migrate.ParseVersion("20260301090500"); err != nil || v != 20260301090500 {
		t.Fatalf("got %d, %v", v, err)
	}
	for _, bad := range []string{"", "2026", "2026030109050x"} {
		if _, err := migrate.ParseVersion(bad); err == nil {
			t.Errorf("ParseVersion(%q) should fail", bad)
		}
	}
}

func TestAutoMigrateCreatesTablesOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_automigrate?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := migrate.AutoMigrate(context.Background(), db.Wrap(conn)); err != nil {
		t.Fatalf("AutoMigrate: %v", err)
	}
	for _, table := range []string{"categories", "media", "products", "product_images", "pages", "globals", "admin_users"} {
		if !conn.Migrator().HasTable(table) {
			t.Errorf("expected table %s", table)
		}
	}
}
