package infra

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AGENT_KEY", "agent-secret")
	t.Setenv("MULERUN_API_KEY", "vendor-key")
	t.Setenv("MULERUN_BASE_URL", "https://api.mulerun.example/v1")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CREATOR_MULTIPLIER", "")
	t.Setenv("ALLOWED_ORIGINS", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.CostMultiplier != 1.0 {
		t.Fatalf("CostMultiplier = %v, want 1.0", cfg.CostMultiplier)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.AppName != "nano-banana-generator" {
		t.Fatalf("AppName = %q", cfg.AppName)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "*" {
		t.Fatalf("AllowedOrigins = %#v, want [*]", cfg.AllowedOrigins)
	}
}

func TestLoadConfigRequiresAgentKey(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AGENT_KEY", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for missing AGENT_KEY")
	}
}

func TestLoadConfigUnparsableMultiplierFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CREATOR_MULTIPLIER", "not-a-number")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.CostMultiplier != 1.0 {
		t.Fatalf("CostMultiplier = %v, want 1.0 fallback", cfg.CostMultiplier)
	}
}

func TestLoadConfigParsesMultiplierAndOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CREATOR_MULTIPLIER", "1.5")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://studio.example.com ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.CostMultiplier != 1.5 {
		t.Fatalf("CostMultiplier = %v, want 1.5", cfg.CostMultiplier)
	}
	want := []string{"https://app.example.com", "https://studio.example.com"}
	if len(cfg.AllowedOrigins) != len(want) {
		t.Fatalf("AllowedOrigins = %#v, want %#v", cfg.AllowedOrigins, want)
	}
	for i := range want {
		if cfg.AllowedOrigins[i] != want[i] {
			t.Fatalf("AllowedOrigins[%d] = %q, want %q", i, cfg.AllowedOrigins[i], want[i])
		}
	}
}

func TestLoadConfigTrimsBaseURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("MULERUN_BASE_URL", "https://api.mulerun.example/v1/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.VendorBaseURL != "https://api.mulerun.example/v1" {
		t.Fatalf("VendorBaseURL = %q", cfg.VendorBaseURL)
	}
}
