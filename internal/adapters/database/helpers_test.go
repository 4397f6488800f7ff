package database

import (
	"context"
	"testing"
	"time"

	"travelhub/internal/config"
	"travelhub/internal/core/user"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with foreign keys on
// and the full schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), config.GormConfig(zap.NewNop()))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *user.User {
	t.Helper()
	u, err := NewUserRepositoryDatabase(db).Create(context.Background(), &user.User{
		Username: username,
		Password: "hash",
	})
	require.NoError(t, err)
	return u
}

func date(s string) datatypes.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return datatypes.Date(t)
}

func strPtr(s string) *string { return &s }

func intPtr(n int) *int { return &n }
