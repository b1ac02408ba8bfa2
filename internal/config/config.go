// Package config handles universe service configuration loading and management.
package config

import "time"

// Config holds all settings for the universe service.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Presence PresenceConfig `yaml:"presence"`
	License  LicenseConfig  `yaml:"license"`
	Admin    AdminConfig    `yaml:"admin"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// NetworkConfig holds listener and framing settings.
type NetworkConfig struct {
	ListenAddr       string        `yaml:"listen_addr"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	PacketGroupBytes int           `yaml:"packet_group_bytes"`
	MetricsAddr      string        `yaml:"metrics_addr"`
}

// PresenceConfig holds heartbeat and tick timing settings.
type PresenceConfig struct {
	TickInterval      time.Duration `yaml:"tick_interval"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	UserListThrottle  time.Duration `yaml:"user_list_throttle"`
}

// LicenseConfig holds world-server license issuance settings.
type LicenseConfig struct {
	GrantHistorySize int `yaml:"grant_history_size"`
}

// AdminConfig holds the citizen numbers granted administrator privileges.
type AdminConfig struct {
	CitizenNumbers []uint32 `yaml:"citizen_numbers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Network: NetworkConfig{
			ListenAddr:       "0.0.0.0:6670",
			IdleTimeout:      90 * time.Second,
			PacketGroupBytes: 0x1400,
			MetricsAddr:      "127.0.0.1:9090",
		},
		Presence: PresenceConfig{
			TickInterval:      1 * time.Second,
			HeartbeatInterval: 30 * time.Second,
			UserListThrottle:  3 * time.Second,
		},
		License: LicenseConfig{
			GrantHistorySize: 64,
		},
		Admin: AdminConfig{
			CitizenNumbers: []uint32{1},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// IsAdmin reports whether the given citizen number has administrator privileges.
func (c *Config) IsAdmin(citizenNumber uint32) bool {
	for _, n := range c.Admin.CitizenNumbers {
		if n == citizenNumber {
			return true
		}
	}
	return false
}
