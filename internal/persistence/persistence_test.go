package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/WILMAR-1/SOPORTE-ADVANCED-NEW-VORTICEX/internal/config"
)

func TestMigrationFilesSortedSQLOnly(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_notes.sql", "001_init.sql", "README.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "003_dir.sql"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := migrationFiles(dir)
	if err != nil {
		t.Fatalf("migrationFiles: %v", err)
	}
	want := []string{"001_init.sql", "002_notes.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("files = %v, want %v", got, want)
	}
}

func TestRunMigrationsWithoutPool(t *testing.T) {
	n, err := RunMigrations(context.Background(), nil, "does-not-exist", zap.NewNop())
	if err != nil || n != 0 {
		t.Fatalf("RunMigrations = %d, %v", n, err)
	}
}

func TestDisabledStores(t *testing.T) {
	ctx := context.Background()
	pg, err := NewPostgres(ctx, config.PostgresConfig{}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPostgres: %v", err)
	}
	if pg.Enabled() || !errors.Is(pg.Ping(ctx), ErrNotConfigured) {
		t.Error("empty DSN should yield a disabled store")
	}
	pg.Close()

	rd := NewRedis(ctx, config.RedisConfig{Enabled: false}, zap.NewNop())
	if rd.Enabled() || !errors.Is(rd.Ping(ctx), ErrNotConfigured) {
		t.Error("disabled redis should not report ready")
	}
	rd.Close()
}
