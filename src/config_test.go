package bookforge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BOOKFORGE_ADDR", "")
	t.Setenv("BOOKFORGE_RATE_LIMIT", "")

	cfg := LoadConfig()
	if cfg.Addr != ":8081" {
		t.Errorf("Addr = %q, want default", cfg.Addr)
	}
	if cfg.RateLimit != 30 {
		t.Errorf("RateLimit = %d, want default 30", cfg.RateLimit)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BOOKFORGE_ADDR", ":9999")
	t.Setenv("CLAUDE_API_KEY", "test-key")
	t.Setenv("BOOKFORGE_LOG_PRETTY", "false")
	t.Setenv("BOOKFORGE_RATE_LIMIT", "not-a-number")

	cfg := LoadConfig()
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.ClaudeAPIKey != "test-key" {
		t.Errorf("ClaudeAPIKey = %q", cfg.ClaudeAPIKey)
	}
	if cfg.LogPretty {
		t.Error("LogPretty should parse false")
	}
	if cfg.RateLimit != 30 {
		t.Errorf("unparseable RateLimit should keep the default, got %d", cfg.RateLimit)
	}
}

func TestApplyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "addr: \":7070\"\nrateLimit: 5\ntls: true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg := Config{Addr: ":8081", DataDir: "data"}
	if err := cfg.ApplyYAML(path); err != nil {
		t.Fatalf("ApplyYAML: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.RateLimit != 5 || !cfg.TLS {
		t.Errorf("overlay not applied: %+v", cfg)
	}
	if cfg.DataDir != "data" {
		t.Error("fields absent from the file must keep their values")
	}
}

func TestApplyYAMLMissingFile(t *testing.T) {
	cfg := Config{Addr: ":8081"}
	if err := cfg.ApplyYAML(filepath.Join(t.TempDir(), "nope.yaml")); err != nil {
		t.Errorf("missing file should not error: %v", err)
	}
	if cfg.Addr != ":8081" {
		t.Error("config must be unchanged")
	}
}

func TestApplyYAMLMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("addr: [unclosed"), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	var cfg Config
	if err := cfg.ApplyYAML(path); err == nil {
		t.Error("malformed yaml should error")
	}
}

func TestImageBackendSelection(t *testing.T) {
	if (Config{}).ImageBackend() != nil {
		t.Error("no backend configured should yield nil")
	}
	if _, ok := (Config{SDWebUIURL: "http://localhost:7860"}).ImageBackend().(*SDWebUIClient); !ok {
		t.Error("SD-WebUI URL should select the SD-WebUI client")
	}
	if _, ok := (Config{HordeAPIKey: "k"}).ImageBackend().(*HordeClient); !ok {
		t.Error("horde key alone should select the horde client")
	}
	if _, ok := (Config{SDWebUIURL: "http://localhost:7860", HordeAPIKey: "k"}).ImageBackend().(*SDWebUIClient); !ok {
		t.Error("SD-WebUI should win when both are configured")
	}
}
