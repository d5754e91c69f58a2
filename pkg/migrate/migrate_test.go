package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/angelmondragon/bazaar-backend/pkg/config"
	"github.com/angelmondragon/bazaar-backend/pkg/db"
	"github.com/angelmondragon/bazaar-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCartStatesMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_states.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no cart_states migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS cart_states",
		"storage_key TEXT PRIMARY KEY",
		"payload TEXT NOT NULL",
		"CREATE INDEX IF NOT EXISTS idx_cart_states_updated_at",
		"DROP TABLE IF EXISTS cart_states",
	} {
		assert.Contains(t, content, sub)
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "add_carts.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid migration filename")
}

func TestValidateDirRequiresGooseHeaders(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_carts.sql"), []byte("-- +goose Up\n"), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "+goose Down")
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Cart Index!")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_add_cart_index.sql"), path)
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	assert.Error(t, err)
}

func TestValidateFSAcceptsEmbeddedMigrations(t *testing.T) {
	require.NoError(t, ValidateFS(Embedded()))
}

func TestValidateDirRejectsDownBeforeUp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_carts.sql"), []byte("-- +goose Down\n-- +goose Up\n"), 0o644))

	err := ValidateDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Down before Up")
}

func TestCreateSQLMigrationSortsAfterExisting(t *testing.T) {
	dir := t.TempDir()
	future := "29990101000000_later.sql"
	require.NoError(t, os.WriteFile(filepath.Join(dir, future), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))

	path, err := CreateSQLMigration(dir, "next")
	require.NoError(t, err)
	assert.Equal(t, "29990101000001_next.sql", filepath.Base(path))
}

func TestDialect(t *testing.T) {
	got, err := Dialect("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", got)

	got, err = Dialect("SQLite")
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", got)

	_, err = Dialect("mysql")
	assert.Error(t, err)
}

func TestRunEmbeddedAppliesCartStates(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_embedded?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, RunEmbedded(context.Background(), sqlDB, "sqlite", "up"))
	assert.True(t, conn.Migrator().HasTable("cart_states"))

	require.NoError(t, RunEmbedded(context.Background(), sqlDB, "sqlite", "down"))
	assert.False(t, conn.Migrator().HasTable("cart_states"))
}

func TestShouldAutoRun(t *testing.T) {
	cfg := &config.Config{}
	assert.False(t, ShouldAutoRun(cfg))

	cfg.FeatureFlags.AutoMigrate = true
	cfg.App.Env = "prod"
	cfg.DB.Driver = config.DriverPostgres
	assert.False(t, ShouldAutoRun(cfg))

	cfg.DB.Driver = config.DriverSQLite
	assert.True(t, ShouldAutoRun(cfg))

	cfg.DB.Driver = config.DriverPostgres
	cfg.App.Env = config.AppEnvDev
	assert.True(t, ShouldAutoRun(cfg))
	assert.False(t, ShouldAutoRun(nil))
}

func TestMaybeRunDevAppliesOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:migrate_autorun?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{}
	cfg.FeatureFlags.AutoMigrate = true
	cfg.DB.Driver = config.DriverSQLite
	client, err := db.NewFromConn(conn)
	require.NoError(t, err)
	require.NoError(t, MaybeRunDev(context.Background(), cfg, logger.Nop(), client))
	assert.True(t, conn.Migrator().HasTable("cart_states"))
}
