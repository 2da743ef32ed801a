package merchant

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/alovak/qris-playground/internal/expiry"
	"gopkg.in/yaml.v3"
)

// Config is a configuration for the merchant application
type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	// RepoBackend is "mem" or "pg".
	RepoBackend string `yaml:"repo_backend"`
	DBDSN       string `yaml:"db_dsn"`
	// PayloadHashKey keys the HMAC used to deduplicate issued payloads.
	PayloadHashKey string `yaml:"payload_hash_key"`
	// PaymentTTL is how long an issued dynamic payload stays payable.
	PaymentTTL time.Duration `yaml:"payment_ttl"`
	// ExpiryTZ is an IANA timezone name expiry instants are reported in (e.g., "Asia/Jakarta").
	ExpiryTZ string `yaml:"expiry_tz"`
	// QRSize is the rendered PNG edge in pixels.
	QRSize   int    `yaml:"qr_size"`
	LogLevel string `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		HTTPAddr:       "localhost:9090",
		RepoBackend:    "mem",
		PayloadHashKey: "dev-secret-pepper",
		PaymentTTL:     15 * time.Minute,
		ExpiryTZ:       "Asia/Jakarta",
		QRSize:         256,
		LogLevel:       "info",
	}
}

// LoadConfig starts from DefaultConfig, applies the YAML file at path when
// path is not empty, then the environment.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.HTTPAddr = getenv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.RepoBackend = getenv("REPO_BACKEND", cfg.RepoBackend)
	cfg.DBDSN = getenv("DB_DSN", cfg.DBDSN)
	cfg.PayloadHashKey = getenv("PAYLOAD_HASH_KEY", cfg.PayloadHashKey)
	cfg.ExpiryTZ = getenv("EXPIRY_TZ", cfg.ExpiryTZ)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)

	if v := os.Getenv("PAYMENT_TTL"); v != "" {
		ttl, err := expiry.ParseTTL(v)
		if err != nil {
			return nil, fmt.Errorf("PAYMENT_TTL: %w", err)
		}
		cfg.PaymentTTL = ttl
	}
	if v := os.Getenv("QR_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("QR_SIZE must be an integer: %w", err)
		}
		cfg.QRSize = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch c.RepoBackend {
	case "mem":
	case "pg":
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required for pg backend")
		}
	default:
		return fmt.Errorf("unsupported REPO_BACKEND=%s", c.RepoBackend)
	}
	if c.PaymentTTL <= 0 || c.PaymentTTL > expiry.MaxTTL {
		return fmt.Errorf("payment ttl must be within (0, %s]", expiry.MaxTTL)
	}
	if c.PayloadHashKey == "" {
		return fmt.Errorf("PAYLOAD_HASH_KEY must not be empty")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
