package core

import (
	"fmt"
	"strings"
	"time"
)

type ServerConfig struct {
	Address string `koanf:"address" mapstructure:"address"`
}

type WebhookConfig struct {
	// Secret is the shared HMAC secret. Verification fails closed when it is
	// empty: deliveries are rejected as a server misconfiguration.
	Secret           string   `koanf:"secret" mapstructure:"secret"`
	SignatureHeaders []string `koanf:"signature_headers" mapstructure:"signature_headers"`
	// ForceCreate skips the upsert lookup and always creates records. It is an
	// operational troubleshooting override, not part of normal handling.
	ForceCreate bool `koanf:"force_create" mapstructure:"force_create"`
}

type PersistenceConfig struct {
	Driver      string        `koanf:"driver" mapstructure:"driver"`
	Server      string        `koanf:"server" mapstructure:"server"`
	Debug       bool          `koanf:"debug" mapstructure:"debug"`
	PingTimeout time.Duration `koanf:"ping_timeout" mapstructure:"ping_timeout"`
}

func (c PersistenceConfig) GetDebug() bool {
	return c.Debug
}

func (c PersistenceConfig) GetDriver() string {
	return strings.TrimSpace(c.Driver)
}

func (c PersistenceConfig) GetServer() string {
	return strings.TrimSpace(c.Server)
}

func (c PersistenceConfig) GetPingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return time.Second
	}
	return c.PingTimeout
}

func (c PersistenceConfig) GetOtelIdentifier() string {
	return "go-bookings"
}

type Config struct {
	ServiceName string            `koanf:"service_name" mapstructure:"service_name"`
	Provider    string            `koanf:"provider" mapstructure:"provider"`
	Server      ServerConfig      `koanf:"server" mapstructure:"server"`
	Webhook     WebhookConfig     `koanf:"webhook" mapstructure:"webhook"`
	Persistence PersistenceConfig `koanf:"persistence" mapstructure:"persistence"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "bookings",
		Provider:    "calcom",
		Server: ServerConfig{
			Address: ":8080",
		},
		Persistence: PersistenceConfig{
			Driver:      "sqlite3",
			Server:      "file:bookings.db?_foreign_keys=on",
			PingTimeout: time.Second,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Provider) == "" {
		return fmt.Errorf("core: provider is required")
	}
	switch driver := strings.TrimSpace(c.Persistence.Driver); driver {
	case "", "postgres", "sqlite3":
	default:
		return fmt.Errorf("core: unsupported persistence driver %q", driver)
	}
	return nil
}
