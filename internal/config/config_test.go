package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_YAMLAndDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  driver: sqlite
  path: /tmp/moderation.db
moderation:
  policy_cache_ttl: 30s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/moderation.db", cfg.Database.GetDSN())
	assert.Equal(t, 30*time.Second, cfg.Moderation.PolicyCacheTTL)
	// untouched values keep their defaults
	assert.Equal(t, 10*time.Second, cfg.Moderation.DecisionTimeout)
	assert.Equal(t, 6379, cfg.Redis.Port)
}

func TestLoad_EnvExpansionAndOverrides(t *testing.T) {
	t.Setenv("MODERATION_DB_USER", "moder")
	t.Setenv("JWT_SECRET", "from-env-secret")
	t.Setenv("DB_PORT", "3307")

	path := writeConfig(t, `
database:
  host: db.internal
  user: ${MODERATION_DB_USER}
  password: pw
  dbname: angple
jwt:
  secret: from-file
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "moder", cfg.Database.User)
	assert.Equal(t, 3307, cfg.Database.Port)
	assert.Equal(t, "from-env-secret", cfg.JWT.Secret)
	assert.Equal(t, "moder:pw@tcp(db.internal:3307)/angple?charset=utf8mb4&parseTime=True&loc=Local", cfg.Database.GetDSN())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "", mask(""))
	assert.Equal(t, "****", mask("abc"))
	assert.Equal(t, "se**et", mask("secret"))
}
