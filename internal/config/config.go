// Package config loads st settings from ~/.soiltwin/config.toml and SOILTWIN_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/soiltwin/soiltwin-cli/internal/logging"
)

const (
	configDir  = ".soiltwin"
	configName = "config"
	configType = "toml"
	envPrefix  = "SOILTWIN"
)

const (
	KeyAPIBaseURL            = "api.base_url"
	KeyAPIOrigin             = "api.origin"
	KeyAPITimeout            = "api.timeout"
	KeyStorageBackend        = "storage.backend"
	KeyStoragePath           = "storage.path"
	KeyStorageDir            = "storage.dir"
	KeyPassPrefix            = "storage.pass_prefix"
	KeyPollInterval          = "poll.interval"
	KeyPollSecondaryInterval = "poll.secondary_interval"
	KeyWeatherLocation       = "weather.location"
	KeyLogLevel              = "log.level"
	KeyLogFormat             = "log.format"
	KeyLogFile               = "log.file"
	KeyLogMaxSizeMB          = "log.max_size_mb"
	KeyLogMaxBackups         = "log.max_backups"
	KeyLogMaxAgeDays         = "log.max_age_days"
)

// Storage backends accepted by storage.backend.
const (
	BackendTOML  = "toml"
	BackendFile  = "file"
	BackendPass  = "pass"
	BackendChain = "chain"
)

type API struct {
	BaseURL string
	Origin  string
	Timeout time.Duration
}

type Storage struct {
	Backend    string
	Path       string
	Dir        string
	PassPrefix string
}

type Poll struct {
	Interval          time.Duration
	SecondaryInterval time.Duration
}

type Config struct {
	Home            string
	API             API
	Storage         Storage
	Poll            Poll
	WeatherLocation string
	Log             logging.Config
}

// Load reads settings into cfg and returns the resolved configuration. A
// missing config file is not an error.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}
	home := filepath.Join(homeDir, configDir)

	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(home)
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	setDefaults(cfg, home)

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	loaded := Config{
		Home: home,
		API: API{
			BaseURL: strings.TrimSpace(cfg.GetString(KeyAPIBaseURL)),
			Origin:  strings.TrimSpace(cfg.GetString(KeyAPIOrigin)),
			Timeout: cfg.GetDuration(KeyAPITimeout),
		},
		Storage: Storage{
			Backend:    strings.ToLower(strings.TrimSpace(cfg.GetString(KeyStorageBackend))),
			Path:       expandHome(cfg.GetString(KeyStoragePath), homeDir),
			Dir:        expandHome(cfg.GetString(KeyStorageDir), homeDir),
			PassPrefix: cfg.GetString(KeyPassPrefix),
		},
		Poll: Poll{
			Interval:          cfg.GetDuration(KeyPollInterval),
			SecondaryInterval: cfg.GetDuration(KeyPollSecondaryInterval),
		},
		WeatherLocation: strings.TrimSpace(cfg.GetString(KeyWeatherLocation)),
		Log: logging.Config{
			Level:      cfg.GetString(KeyLogLevel),
			Format:     cfg.GetString(KeyLogFormat),
			File:       expandHome(cfg.GetString(KeyLogFile), homeDir),
			MaxSizeMB:  cfg.GetInt(KeyLogMaxSizeMB),
			MaxBackups: cfg.GetInt(KeyLogMaxBackups),
			MaxAgeDays: cfg.GetInt(KeyLogMaxAgeDays),
		},
	}

	if err := loaded.validate(); err != nil {
		return Config{}, err
	}
	return loaded, nil
}

func setDefaults(cfg *viper.Viper, home string) {
	cfg.SetDefault(KeyAPIBaseURL, "/api")
	cfg.SetDefault(KeyAPIOrigin, "http://localhost:8000")
	cfg.SetDefault(KeyAPITimeout, 30*time.Second)
	cfg.SetDefault(KeyStorageBackend, BackendTOML)
	cfg.SetDefault(KeyStoragePath, filepath.Join(home, "session.toml"))
	cfg.SetDefault(KeyStorageDir, filepath.Join(home, "session"))
	cfg.SetDefault(KeyPassPrefix, "soiltwin")
	cfg.SetDefault(KeyPollInterval, 2*time.Second)
	cfg.SetDefault(KeyPollSecondaryInterval, 5*time.Second)
	cfg.SetDefault(KeyWeatherLocation, "Ludhiana,IN")
	cfg.SetDefault(KeyLogLevel, "info")
	cfg.SetDefault(KeyLogFormat, "console")
	cfg.SetDefault(KeyLogFile, filepath.Join(home, "logs", "st.log"))
	cfg.SetDefault(KeyLogMaxSizeMB, 10)
	cfg.SetDefault(KeyLogMaxBackups, 3)
	cfg.SetDefault(KeyLogMaxAgeDays, 28)
}

func (c Config) validate() error {
	switch c.Storage.Backend {
	case BackendTOML, BackendFile, BackendPass, BackendChain:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.API.BaseURL == "" {
		return errors.New("api base url is empty")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api timeout must be positive, got %s", c.API.Timeout)
	}
	if c.Poll.Interval <= 0 || c.Poll.SecondaryInterval <= 0 {
		return errors.New("poll intervals must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func expandHome(path, homeDir string) string {
	path = strings.TrimSpace(path)
	if path == "~" {
		return homeDir
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
