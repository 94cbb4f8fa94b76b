package database

import (
	"path/filepath"
	"testing"

	"github.com/damoang/angple-moderation/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpen_SQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "t.db")}, gormlogger.Silent)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", db.Dialector.Name())
	assert.True(t, db.Config.TranslateError)
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(config.DatabaseConfig{Driver: "sqlite"}, gormlogger.Silent)
	assert.Error(t, err)

	_, err = Open(config.DatabaseConfig{Driver: "postgres"}, gormlogger.Silent)
	assert.Error(t, err)
}
