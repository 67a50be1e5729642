package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roster/backend/internal/pkg/config"
)

func TestNewConfigDefaults(t *testing.T) {
	t.Setenv("ROSTER_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))

	c, err := config.NewConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8080", c.Web.Port)
	assert.Equal(t, "roster", c.DB.Name)
	assert.Equal(t, 5*time.Minute, c.Redis.FlashTTL)
	assert.Equal(t, "statics", c.Upload.BaseDir)
}

func TestNewConfigYAMLOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db:
  db_host: db.internal:5432
  db_name: roster_prod
redis:
  flash_ttl: 90s
auth:
  jwt_key: from-file
`), 0o600))

	t.Setenv("ROSTER_CONFIG_FILE", path)
	t.Setenv("ROSTER_WEB_PORT", "0.0.0.0:9090")

	c, err := config.NewConfig(nil)

	require.NoError(t, err)
	assert.Equal(t, "db.internal:5432", c.DB.Host)
	assert.Equal(t, "roster_prod", c.DB.Name)
	assert.Equal(t, "postgres", c.DB.Username)
	assert.Equal(t, 90*time.Second, c.Redis.FlashTTL)
	assert.Equal(t, "from-file", c.Auth.JWTKey)
	assert.Equal(t, "0.0.0.0:9090", c.Web.Port)
}

func TestNewConfigRejectsEmptyDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  db_name: \"\"\n"), 0o600))
	t.Setenv("ROSTER_CONFIG_FILE", path)

	_, err := config.NewConfig(nil)

	assert.Error(t, err)
}
