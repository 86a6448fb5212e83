package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultBackendURL  = "ws://127.0.0.1:7777/rpc"
	defaultCallTimeout = 30 * time.Second
	defaultPageSize    = 50
)

type Config struct {
	Backend BackendConfig `toml:"backend"`
	Logging LoggingConfig `toml:"logging"`
	Session SessionConfig `toml:"session"`
}

type BackendConfig struct {
	URL            string `toml:"url"`
	CallTimeoutSec int    `toml:"call_timeout_sec"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type SessionConfig struct {
	PageSize int `toml:"page_size"`
}

func Default() Config {
	return Config{
		Backend: BackendConfig{URL: defaultBackendURL},
		Logging: LoggingConfig{Level: "info"},
		Session: SessionConfig{PageSize: defaultPageSize},
	}
}

// Load reads the config file at Path, tolerating a missing file by returning
// defaults. Unset fields fall back through the accessor methods.
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Config{}, err
	}
	return loadFromPath(path)
}

func loadFromPath(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) BackendURL() string {
	url := strings.TrimSpace(c.Backend.URL)
	if url == "" {
		return defaultBackendURL
	}
	return url
}

func (c Config) CallTimeout() time.Duration {
	if c.Backend.CallTimeoutSec <= 0 {
		return defaultCallTimeout
	}
	return time.Duration(c.Backend.CallTimeoutSec) * time.Second
}

func (c Config) PageSize() int {
	if c.Session.PageSize <= 0 {
		return defaultPageSize
	}
	return c.Session.PageSize
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}
