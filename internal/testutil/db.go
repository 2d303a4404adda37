// Package testutil provides a migrated in-memory database for tests.
package testutil

import (
	"fmt"
	"testing"

	"flowershop_backend/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewDB opens a private SQLite database with foreign keys enforced.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db, zerolog.Nop()))
	return db
}

// SeededDB is NewDB plus the demo users, categories and products.
func SeededDB(t testing.TB) *gorm.DB {
	t.Helper()
	db := NewDB(t)
	require.NoError(t, config.Seed(db, zerolog.Nop()))
	return db
}
