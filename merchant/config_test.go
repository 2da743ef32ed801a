package merchant

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, k := range []string{"HTTP_ADDR", "REPO_BACKEND", "DB_DSN", "PAYLOAD_HASH_KEY", "PAYMENT_TTL", "EXPIRY_TZ", "QR_SIZE", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_FileAndEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "merchant.yaml")
	yml := `
http_addr: "0.0.0.0:8080"
payment_ttl: 30m
expiry_tz: UTC
qr_size: 512
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("QR_SIZE", "-6")
	t.Setenv("PAYLOAD_HASH_KEY", "from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	require.Equal(t, 30*time.Minute, cfg.PaymentTTL)
	require.Equal(t, "UTC", cfg.ExpiryTZ)
	require.Equal(t, -6, cfg.QRSize)
	require.Equal(t, "from-env", cfg.PayloadHashKey)
	require.Equal(t, "mem", cfg.RepoBackend)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("pg without dsn", func(t *testing.T) {
		t.Setenv("REPO_BACKEND", "pg")
		_, err := LoadConfig("")
		require.ErrorContains(t, err, "DB_DSN")
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("REPO_BACKEND", "redis")
		_, err := LoadConfig("")
		require.ErrorContains(t, err, "unsupported REPO_BACKEND")
	})

	t.Run("bad ttl", func(t *testing.T) {
		t.Setenv("PAYMENT_TTL", "48h")
		_, err := LoadConfig("")
		require.ErrorContains(t, err, "PAYMENT_TTL")
	})

	t.Run("bad qr size", func(t *testing.T) {
		t.Setenv("QR_SIZE", "big")
		_, err := LoadConfig("")
		require.ErrorContains(t, err, "QR_SIZE")
	})
}
