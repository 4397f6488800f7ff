package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	d, err := Dialector("", "user:pass@tcp(localhost:3306)/travelhub")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	d, err = Dialector("sqlite", "file::memory:")
	require.NoError(t, err)
	assert.Equal(t, "sqlite", d.Name())

	_, err = Dialector("oracle", "x")
	assert.Error(t, err)
}

func TestGormConfig(t *testing.T) {
	cfg := GormConfig(zap.NewNop())
	assert.True(t, cfg.TranslateError)
	assert.Equal(t, time.UTC, cfg.NowFunc().Location())

	db, err := gorm.Open(mustDialector(t), cfg)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.NoError(t, sqlDB.Ping())
	_ = sqlDB.Close()
}

func mustDialector(t *testing.T) gorm.Dialector {
	d, err := Dialector("sqlite", "file::memory:")
	require.NoError(t, err)
	return d
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("TRAVELHUB_INT", "12")
	t.Setenv("TRAVELHUB_BAD", "x")
	t.Setenv("TRAVELHUB_DUR", "3s")

	assert.Equal(t, 12, GetenvInt("TRAVELHUB_INT", 1))
	assert.Equal(t, 1, GetenvInt("TRAVELHUB_BAD", 1))
	assert.Equal(t, 3*time.Second, GetenvDuration("TRAVELHUB_DUR", time.Second))
	assert.Equal(t, time.Second, GetenvDuration("TRAVELHUB_BAD", time.Second))
	assert.Equal(t, "def", Getenv("TRAVELHUB_UNSET", "def"))
}
