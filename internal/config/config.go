package config

import (
	"os"
	"time"

	"fodinha-server/internal/util"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the fodinha server
type Config struct {
	loaded         bool
	Addr           string `yaml:"addr"`
	PGDSN          string `yaml:"pgDsn" envconfig:"pg_dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`
	JWT            struct {
		Secret string        `yaml:"secret"`
		TTL    time.Duration `yaml:"ttl"`
	} `yaml:"jwt"`
	Log struct {
		Level             string `yaml:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
		Format            string `yaml:"format"`
	} `yaml:"log"`
	Game struct {
		DefaultLives int `yaml:"defaultLives" envconfig:"default_lives"`
		MaxPlayers   int `yaml:"maxPlayers" envconfig:"max_players"`
	} `yaml:"game"`
	Session struct {
		IdleTTL      time.Duration `yaml:"idleTTL" envconfig:"idle_ttl"`
		ReapInterval time.Duration `yaml:"reapInterval" envconfig:"reap_interval"`
	} `yaml:"session"`
}

var config Config

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	var cfg Config
	cfg.Addr = ":5000"
	cfg.MigrationsPath = "./sql"
	cfg.JWT.TTL = time.Hour * 24
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	cfg.Game.DefaultLives = 3
	cfg.Game.MaxPlayers = 4
	cfg.Session.IdleTTL = time.Hour
	cfg.Session.ReapInterval = time.Minute

	return cfg
}

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Load will load the configuration
// The config file is optional, environment variables prefixed with FODINHA_ take precedence
func Load() error {
	cfg := DefaultConfig()

	configFile := util.Getenv("FODINHA_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	if file != nil {
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("fodinha", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}
