package repo

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	sqlite "github.com/glebarez/sqlite"

	"github.com/tbourn/brand-mentions/internal/domain"
)

// newTestDB opens a scratch database under t.TempDir, migrated when asked.
func newTestDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "mentions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if migrate {
		require.NoError(t, Migrate(db))
	}
	return db
}

func TestOpenSQLite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "brand_tracker.db")
	db, err := OpenSQLite(path)
	require.Error(t, err)
	assert.Nil(t, db)
	assert.True(t, errors.Is(err, fs.ErrNotExist), "got %v", err)
	assert.Contains(t, err.Error(), path)
}

func TestOpenSQLite_PragmasPoolAndSchema(t *testing.T) {
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "brand_tracker.db"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	var mode string
	var syncLevel, busy, fk int
	require.NoError(t, db.Raw("PRAGMA journal_mode").Row().Scan(&mode))
	require.NoError(t, db.Raw("PRAGMA synchronous").Row().Scan(&syncLevel))
	require.NoError(t, db.Raw("PRAGMA busy_timeout").Row().Scan(&busy))
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Row().Scan(&fk))
	assert.Equal(t, "wal", strings.ToLower(mode))
	assert.Equal(t, 1, syncLevel, "NORMAL")
	assert.Equal(t, 5000, busy)
	assert.Equal(t, 8, sqlDB.Stats().MaxOpenConnections)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db), "migrations are idempotent")
	for _, tbl := range []any{&domain.BrandMention{}, &domain.MonitoringConfig{}} {
		assert.True(t, db.Migrator().HasTable(tbl), "%T table", tbl)
	}
}

func TestGormLogger_SlowQueriesGoToZerolog(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })

	l := newGormLogger()
	begin := time.Now().Add(-2 * SlowQueryThreshold)
	l.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM brand_mentions WHERE brand_name = ?", 3
	}, nil)

	out := buf.String()
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"component":"gorm"`)
	assert.Contains(t, out, "SLOW SQL")

	buf.Reset()
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, gorm.ErrRecordNotFound)
	assert.Empty(t, buf.String(), "record-not-found is not noise worth logging")
}

func TestEnableTracing_InstallsPlugin(t *testing.T) {
	db := newTestDB(t, false)
	require.NoError(t, EnableTracing(db))
	assert.NotEmpty(t, db.Config.Plugins)
}
