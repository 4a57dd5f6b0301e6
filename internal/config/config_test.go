package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "najdeno.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
db: /var/lib/najdeno/data.sqlite3
addr: ":9090"
jwt_issuer: https://id.example.com
shutdown_timeout: 10s
`), 0o644))

	t.Setenv("NAJDENO_ADDR", "127.0.0.1:7000")
	t.Setenv("NAJDENO_JWT_SECRET", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/najdeno/data.sqlite3", cfg.DBPath)
	assert.Equal(t, "127.0.0.1:7000", cfg.Addr)
	assert.Equal(t, "https://id.example.com", cfg.JWTIssuer)
	assert.Equal(t, "from-env", cfg.JWTSecret)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.DBPath = ""
	cfg.ShutdownTimeout = 0

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database path")
	assert.Contains(t, err.Error(), "shutdown timeout")
}
