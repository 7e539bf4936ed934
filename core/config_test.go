package core

import (
	"context"
	"testing"
	"time"
)

func TestDefaultConfig_Validates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("unexpected default address: %q", cfg.Server.Address)
	}
	if cfg.Provider != "calcom" {
		t.Fatalf("unexpected default provider: %q", cfg.Provider)
	}
}

func TestConfigValidate_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "empty service name", mutate: func(c *Config) { c.ServiceName = " " }},
		{name: "empty provider", mutate: func(c *Config) { c.Provider = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.Persistence.Driver = "oracle" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestPersistenceConfig_Accessors(t *testing.T) {
	cfg := PersistenceConfig{Driver: " postgres ", Server: " dsn ", PingTimeout: 0}
	if cfg.GetDriver() != "postgres" {
		t.Fatalf("unexpected driver: %q", cfg.GetDriver())
	}
	if cfg.GetServer() != "dsn" {
		t.Fatalf("unexpected server: %q", cfg.GetServer())
	}
	if cfg.GetPingTimeout() != time.Second {
		t.Fatalf("expected 1s fallback, got %v", cfg.GetPingTimeout())
	}
}

func TestCfgxConfigProvider_LoadAppliesRawOverDefaults(t *testing.T) {
	provider := NewCfgxConfigProvider(NewStaticRawConfigLoader(map[string]any{
		"provider": "calendly",
		"server": map[string]any{
			"address": ":9090",
		},
		"webhook": map[string]any{
			"secret": "topsecret",
		},
	}))

	cfg, err := provider.Load(context.Background(), DefaultConfig())
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Provider != "calendly" {
		t.Fatalf("expected raw provider override, got %q", cfg.Provider)
	}
	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected raw address override, got %q", cfg.Server.Address)
	}
	if cfg.Webhook.Secret != "topsecret" {
		t.Fatalf("expected raw secret, got %q", cfg.Webhook.Secret)
	}
	if cfg.ServiceName != "bookings" {
		t.Fatalf("expected default service name, got %q", cfg.ServiceName)
	}
}

func TestCfgxConfigProvider_RejectsInvalidRaw(t *testing.T) {
	provider := NewCfgxConfigProvider(NewStaticRawConfigLoader(map[string]any{
		"persistence": map[string]any{
			"driver": "oracle",
		},
	}))
	if _, err := provider.Load(context.Background(), DefaultConfig()); err == nil {
		t.Fatalf("expected validation failure for unknown driver")
	}
}
