package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_ValidConfig(t *testing.T) {
	content := `
service:
  id: "test-catalog"
catalog:
  path: "/tmp/catalog.json"
audit:
  enabled: true
  path: "/tmp/audit.db"
  wal_mode: true
  busy_timeout: 5
mqtt:
  broker:
    host: "localhost"
    port: 1883
    client_id: "test-client"
  qos: 1
api:
  host: "0.0.0.0"
  port: 8080
sweeper:
  interval: 40
  inactive_threshold: 80
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Service.ID != "test-catalog" {
		t.Errorf("Service.ID = %q, want %q", cfg.Service.ID, "test-catalog")
	}
	if cfg.Catalog.Path != "/tmp/catalog.json" {
		t.Errorf("Catalog.Path = %q, want %q", cfg.Catalog.Path, "/tmp/catalog.json")
	}
	if cfg.MQTT.Broker.Host != "localhost" {
		t.Errorf("MQTT.Broker.Host = %q, want %q", cfg.MQTT.Broker.Host, "localhost")
	}
	if cfg.Sweeper.InactiveThreshold != 80 {
		t.Errorf("Sweeper.InactiveThreshold = %d, want 80", cfg.Sweeper.InactiveThreshold)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("Load() expected error for missing file, got nil")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("invalid: [yaml: content"), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := Load(configPath)
	if err == nil {
		t.Error("Load() expected error for invalid YAML, got nil")
	}
}

func TestLoad_ValidationFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "empty service id",
			content: `
service:
  id: ""
catalog:
  path: "/tmp/catalog.json"
`,
		},
		{
			name: "empty catalog path",
			content: `
service:
  id: "test"
catalog:
  path: ""
`,
		},
		{
			name: "invalid qos",
			content: `
service:
  id: "test"
catalog:
  path: "/tmp/catalog.json"
mqtt:
  qos: 5
`,
		},
		{
			name: "threshold shorter than interval",
			content: `
service:
  id: "test"
catalog:
  path: "/tmp/catalog.json"
sweeper:
  interval: 60
  inactive_threshold: 30
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			configPath := filepath.Join(tmpDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write test config: %v", err)
			}

			if _, err := Load(configPath); err == nil {
				t.Error("Load() expected validation error, got nil")
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	content := `
service:
  id: "test-catalog"
catalog:
  path: "/tmp/catalog.json"
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("GREENHOUSE_CATALOG_PATH", "/override/catalog.json")
	t.Setenv("GREENHOUSE_MQTT_HOST", "broker.internal")
	t.Setenv("GREENHOUSE_API_PORT", "9090")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Catalog.Path != "/override/catalog.json" {
		t.Errorf("Catalog.Path = %q, want env override", cfg.Catalog.Path)
	}
	if cfg.MQTT.Broker.Host != "broker.internal" {
		t.Errorf("MQTT.Broker.Host = %q, want env override", cfg.MQTT.Broker.Host)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port = %d, want 9090", cfg.API.Port)
	}
}

func TestDefaults(t *testing.T) {
	cfg := defaultConfig()

	if cfg.API.Port != 8080 {
		t.Errorf("default API port = %d, want 8080", cfg.API.Port)
	}
	if cfg.Sweeper.Interval != 40 {
		t.Errorf("default sweep interval = %d, want 40", cfg.Sweeper.Interval)
	}
	if cfg.Sweeper.InactiveThreshold != 80 {
		t.Errorf("default inactive threshold = %d, want 80", cfg.Sweeper.InactiveThreshold)
	}
	if got := cfg.GetSweepInterval().Seconds(); got != 40 {
		t.Errorf("GetSweepInterval() = %vs, want 40s", got)
	}
}
