package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"exlog/internal/platform/slug"
)

const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"

	fileName  = "exlog"
	envPrefix = "EXLOG"
)

// Config holds all runtime settings. Values come from an optional YAML file,
// EXLOG_* environment variables and the defaults below, in that precedence.
type Config struct {
	DataDir  string         `mapstructure:"-"`
	Store    StoreConfig    `mapstructure:"store"`
	Map      MapConfig      `mapstructure:"map"`
	Location LocationConfig `mapstructure:"location"`
	Log      LogConfig      `mapstructure:"log"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"`
	Key    string `mapstructure:"key"`
	Path   string `mapstructure:"path"`
}

type MapConfig struct {
	Zoom int `mapstructure:"zoom"`
}

// LocationConfig is the fixed position reported by the location provider.
// Disabled means the position is unavailable.
type LocationConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Lat     float64 `mapstructure:"lat"`
	Lng     float64 `mapstructure:"lng"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads exlog.yaml from dataDir (or configFile when set) and overlays the
// environment. A missing default file is not an error; a missing explicit one is.
func Load(dataDir, configFile string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(dataDir)
		v.SetConfigName(fileName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.key", "exercises")
	v.SetDefault("store.path", filepath.Join(dataDir, ".exlog", "exlog.db"))
	v.SetDefault("map.zoom", 12)
	v.SetDefault("location.enabled", false)
	v.SetDefault("location.lat", 0.0)
	v.SetDefault("location.lng", 0.0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.DataDir = dataDir
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("unsupported store driver %q", c.Store.Driver)
	}
	if strings.TrimSpace(c.Store.Key) == "" {
		return fmt.Errorf("store key is required")
	}
	if c.Store.Driver == DriverFile && slug.Make(c.Store.Key) != c.Store.Key {
		return fmt.Errorf("store key %q must be lowercase letters, digits and dashes for the file driver", c.Store.Key)
	}
	if c.Map.Zoom < 1 || c.Map.Zoom > 18 {
		return fmt.Errorf("map zoom must be within 1..18, got %d", c.Map.Zoom)
	}
	if c.Location.Enabled {
		if c.Location.Lat < -90 || c.Location.Lat > 90 || c.Location.Lng < -180 || c.Location.Lng > 180 {
			return fmt.Errorf("location %.5f,%.5f is out of range", c.Location.Lat, c.Location.Lng)
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unsupported log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log format %q", c.Log.Format)
	}
	return nil
}

// StoreDir is where file-backed adapters keep their data.
func (c Config) StoreDir() string {
	return filepath.Join(c.DataDir, ".exlog")
}
