package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Network.ListenAddr != "0.0.0.0:6670" {
		t.Errorf("expected listen addr 0.0.0.0:6670, got %s", cfg.Network.ListenAddr)
	}
	if cfg.Network.IdleTimeout != 90*time.Second {
		t.Errorf("expected idle timeout 90s, got %v", cfg.Network.IdleTimeout)
	}
	if cfg.Network.PacketGroupBytes != 0x1400 {
		t.Errorf("expected packet group budget 0x1400, got %#x", cfg.Network.PacketGroupBytes)
	}

	if cfg.Presence.HeartbeatInterval != 30*time.Second {
		t.Errorf("expected heartbeat interval 30s, got %v", cfg.Presence.HeartbeatInterval)
	}
	if cfg.Presence.UserListThrottle != 3*time.Second {
		t.Errorf("expected user list throttle 3s, got %v", cfg.Presence.UserListThrottle)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if !cfg.IsAdmin(1) {
		t.Error("expected citizen 1 to be admin by default")
	}
	if cfg.IsAdmin(2) {
		t.Error("expected citizen 2 to not be admin by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
network:
  listen_addr: "0.0.0.0:7777"
  idle_timeout: 30s
  packet_group_bytes: 4096

presence:
  heartbeat_interval: 15s
  user_list_throttle: 1s

admin:
  citizen_numbers: [1, 42]

logging:
  level: "debug"
  log_file: "universe.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Network.ListenAddr != "0.0.0.0:7777" {
		t.Errorf("expected listen addr 0.0.0.0:7777, got %s", cfg.Network.ListenAddr)
	}
	if cfg.Network.IdleTimeout != 30*time.Second {
		t.Errorf("expected idle timeout 30s, got %v", cfg.Network.IdleTimeout)
	}
	if cfg.Network.PacketGroupBytes != 4096 {
		t.Errorf("expected packet group budget 4096, got %d", cfg.Network.PacketGroupBytes)
	}
	if cfg.Presence.HeartbeatInterval != 15*time.Second {
		t.Errorf("expected heartbeat interval 15s, got %v", cfg.Presence.HeartbeatInterval)
	}
	if !cfg.IsAdmin(42) {
		t.Error("expected citizen 42 to be admin")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "universe.log" {
		t.Errorf("expected log file 'universe.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
network:
  idle_timeout: not a duration
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("network:\n  listen_addr: \"0.0.0.0:1\"\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "listen flag",
			setup: func() { *flagListen = "0.0.0.0:9999" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Network.ListenAddr != "0.0.0.0:9999" {
					t.Errorf("expected listen addr 0.0.0.0:9999, got %s", cfg.Network.ListenAddr)
				}
			},
			teardown: func() { *flagListen = "" },
		},
		{
			name: "metrics flag",
			setup: func() { *flagMetrics = "0.0.0.0:9191" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Network.MetricsAddr != "0.0.0.0:9191" {
					t.Errorf("expected metrics addr 0.0.0.0:9191, got %s", cfg.Network.MetricsAddr)
				}
			},
			teardown: func() { *flagMetrics = "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)

			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
network:
  listen_addr: "0.0.0.0:1234"
  packet_group_bytes: 8192
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagListen = "0.0.0.0:4321"
	defer func() {
		*flagConfig = ""
		*flagListen = ""
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Listen address should be from the flag, not the file.
	if cfg.Network.ListenAddr != "0.0.0.0:4321" {
		t.Errorf("expected listen addr 0.0.0.0:4321 from flag, got %s", cfg.Network.ListenAddr)
	}

	// Packet group budget should be from the file since there's no flag override.
	if cfg.Network.PacketGroupBytes != 8192 {
		t.Errorf("expected packet group budget 8192 from file, got %d", cfg.Network.PacketGroupBytes)
	}
}
