package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SHOP_SYSTEM_WORKDIR", t.TempDir())

	cfg := LoadConfig("")
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, 1816, cfg.Web.Port)
	assert.NotEmpty(t, cfg.Web.Secret)
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "shop.yml")
	content := `
system:
  workdir: ` + dir + `
web:
  host: 127.0.0.1
  port: 9000
  secret: file-secret
database:
  type: postgres
  host: db.internal
  port: 5432
  name: shop
  user: shop
  passwd: shop
logger:
  mode: production
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0644))
	t.Setenv("SHOP_WEB_PORT", "9100")
	t.Setenv("SHOP_DB_HOST", "other.internal")

	cfg := LoadConfig(cfile)
	assert.Equal(t, "127.0.0.1", cfg.Web.Host)
	assert.Equal(t, "file-secret", cfg.Web.Secret)
	assert.Equal(t, "production", cfg.Logger.Mode)
	// env wins over file
	assert.Equal(t, 9100, cfg.Web.Port)
	assert.Equal(t, "other.internal", cfg.Database.Host)
}
