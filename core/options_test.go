package core

import "testing"

func TestGoOptionsResolver_RuntimeWinsOverConfigAndDefaults(t *testing.T) {
	defaults := DefaultConfig()
	loaded := defaults
	loaded.Provider = "calendly"
	loaded.Server.Address = ":9090"
	runtime := Config{}
	runtime.Server.Address = ":7070"

	resolved, err := GoOptionsResolver{}.Resolve(defaults, loaded, runtime)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Server.Address != ":7070" {
		t.Fatalf("expected runtime address to win, got %q", resolved.Server.Address)
	}
	if resolved.Provider != "calendly" {
		t.Fatalf("expected config provider to survive, got %q", resolved.Provider)
	}
	if resolved.ServiceName != defaults.ServiceName {
		t.Fatalf("expected default service name, got %q", resolved.ServiceName)
	}
}

func TestGoOptionsResolver_EmptyLayersFallBackToDefaults(t *testing.T) {
	defaults := DefaultConfig()
	resolved, err := GoOptionsResolver{}.Resolve(defaults, Config{}, Config{})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Server.Address != defaults.Server.Address {
		t.Fatalf("expected default address, got %q", resolved.Server.Address)
	}
	if resolved.Persistence.Driver != defaults.Persistence.Driver {
		t.Fatalf("expected default driver, got %q", resolved.Persistence.Driver)
	}
}

func TestGoOptionsResolver_ValidatesMergedConfig(t *testing.T) {
	defaults := DefaultConfig()
	runtime := Config{}
	runtime.Persistence.Driver = "oracle"
	runtime.Persistence.Server = "dsn"

	if _, err := (GoOptionsResolver{}).Resolve(defaults, Config{}, runtime); err == nil {
		t.Fatalf("expected validation failure for unknown driver")
	}
}
