// Package config handles loading and managing contactdesk configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// DefaultAPIBase is the message service the dashboard talks to when nothing
// else is configured.
const DefaultAPIBase = "https://contact-backend-v7b0.onrender.com"

// Environment variables recognised by Load.
const (
	EnvHome    = "CONTACTDESK_HOME"
	EnvAPIBase = "CONTACTDESK_API_BASE"
	EnvLocale  = "CONTACTDESK_LOCALE"
)

// RemoteConfig describes the message service.
type RemoteConfig struct {
	URL            string `toml:"url"`             // Service origin, e.g. https://api.example.com
	AllowInsecure  bool   `toml:"allow_insecure"`  // Permit http:// to non-loopback hosts
	TimeoutSeconds int    `toml:"timeout_seconds"` // Per-request timeout, 0 disables
}

// Timeout returns the per-request timeout.
func (r RemoteConfig) Timeout() time.Duration {
	if r.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Locale  string `toml:"locale"`   // BCP 47 tag used for date layouts; empty = from environment
	LogFile string `toml:"log_file"` // Where the TUI writes logs (default: <home>/contactdesk.log)
}

// WatchConfig holds settings for the watch command.
type WatchConfig struct {
	Schedule string `toml:"schedule"` // Cron expression or @every descriptor
}

// DevServerConfig holds settings for the local development server.
type DevServerConfig struct {
	Addr           string   `toml:"addr"`
	SeedFile       string   `toml:"seed_file"`
	RateLimitRPS   float64  `toml:"rate_limit_rps"`
	RateLimitBurst int      `toml:"rate_limit_burst"`
	CORSOrigins    []string `toml:"cors_origins"`
}

// Config represents the contactdesk configuration.
type Config struct {
	Remote    RemoteConfig    `toml:"remote"`
	UI        UIConfig        `toml:"ui"`
	Watch     WatchConfig     `toml:"watch"`
	DevServer DevServerConfig `toml:"devserver"`

	// Computed paths (not from config file)
	HomeDir    string `toml:"-"`
	configPath string
}

// DefaultHome returns the default contactdesk home directory.
// Respects the CONTACTDESK_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv(EnvHome); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".contactdesk"
	}
	return filepath.Join(home, ".contactdesk")
}

// NewDefaultConfig returns a configuration with default values rooted at homeDir.
func NewDefaultConfig(homeDir string) *Config {
	return &Config{
		HomeDir: homeDir,
		Remote: RemoteConfig{
			URL:            DefaultAPIBase,
			TimeoutSeconds: 30,
		},
		Watch: WatchConfig{
			Schedule: "@every 1m",
		},
		DevServer: DevServerConfig{
			Addr:           "127.0.0.1:8787",
			RateLimitRPS:   10,
			RateLimitBurst: 20,
		},
		configPath: filepath.Join(homeDir, "config.toml"),
	}
}

// Load reads the configuration.
//
// homeDir overrides the home directory (like CONTACTDESK_HOME). If path is
// empty, <home>/config.toml is used and may be absent. An explicit path must
// exist. Before the file is read, .env files in the working directory and the
// home directory are loaded into the environment without overriding
// variables that are already set. Environment overrides are applied last.
func Load(path, homeDir string) (*Config, error) {
	if homeDir == "" {
		homeDir = DefaultHome()
	} else {
		homeDir = expandPath(homeDir)
	}

	explicit := path != ""
	if !explicit {
		path = filepath.Join(homeDir, "config.toml")
	} else {
		path = expandPath(path)
	}

	if err := loadDotEnv(homeDir); err != nil {
		return nil, err
	}

	cfg := NewDefaultConfig(homeDir)
	cfg.configPath = path

	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
	} else if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", hintBackslashes(err))
	}

	cfg.applyEnv()
	cfg.UI.LogFile = expandPath(cfg.UI.LogFile)
	cfg.DevServer.SeedFile = expandPath(cfg.DevServer.SeedFile)

	return cfg, nil
}

// loadDotEnv loads .env from the working directory and from homeDir.
// Missing files are ignored; a file that exists but does not parse is an error.
func loadDotEnv(homeDir string) error {
	for _, p := range []string{".env", filepath.Join(homeDir, ".env")} {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIBase)); v != "" {
		c.Remote.URL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLocale)); v != "" {
		c.UI.Locale = v
	}
}

// hintBackslashes adds a hint for the most common TOML mistake on Windows:
// unescaped backslashes in basic strings.
func hintBackslashes(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "escape") || strings.Contains(msg, "hexadecimal digits") {
		return fmt.Errorf("%w (hint: use single quotes or forward slashes for paths containing backslashes)", err)
	}
	return err
}

// ConfigFilePath returns the path of the config file, whether or not it exists.
func (c *Config) ConfigFilePath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return filepath.Join(c.HomeDir, "config.toml")
}

// LogFilePath returns where the TUI writes its log.
func (c *Config) LogFilePath() string {
	if c.UI.LogFile != "" {
		return c.UI.LogFile
	}
	return filepath.Join(c.HomeDir, "contactdesk.log")
}

// EnsureHomeDir creates the home directory if it does not exist.
func (c *Config) EnsureHomeDir() error {
	return os.MkdirAll(c.HomeDir, 0700)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
