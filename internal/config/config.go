// Package config loads server settings. Environment variables (CINEZUVA_
// prefix) override an optional config file, which overrides the defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "CINEZUVA"

type ServerConfig struct {
	Listen      string
	URL         string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Driver  string
	Source  string
	Migrate bool
}

type SessionConfig struct {
	Secret string
	MaxAge time.Duration
}

type MetadataConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type TMDBConfig struct {
	Key       string
	ReadToken string
	ImageBase string
}

type LogConfig struct {
	Level string
}

type SiteConfig struct {
	Name string
}

type Config struct {
	Server   ServerConfig
	DB       DatabaseConfig
	Session  SessionConfig
	Metadata MetadataConfig
	TMDB     TMDBConfig
	Log      LogConfig
	Site     SiteConfig
}

func configDefaults(v *viper.Viper) {
	v.SetDefault("Server.Listen", ":8080")
	v.SetDefault("Server.URL", "http://localhost:8080") // w/o trailing slash
	v.SetDefault("Server.CORSOrigins", []string{})

	v.SetDefault("DB.Driver", "sqlite")
	v.SetDefault("DB.Source", "data/cinezuva.db")
	v.SetDefault("DB.Migrate", "true")

	v.SetDefault("Session.Secret", "")
	v.SetDefault("Session.MaxAge", "168h")

	v.SetDefault("Metadata.APIKey", "")
	v.SetDefault("Metadata.BaseURL", "")
	v.SetDefault("Metadata.Model", "gpt-4o-mini")
	v.SetDefault("Metadata.Timeout", "30s")

	v.SetDefault("TMDB.Key", "")
	v.SetDefault("TMDB.ReadToken", "")
	v.SetDefault("TMDB.ImageBase", "https://image.tmdb.org/t/p/w500")

	v.SetDefault("Log.Level", "info")

	v.SetDefault("Site.Name", "Cinezuva")
}

func readConfig(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	config.Server.URL = strings.TrimSuffix(config.Server.URL, "/")
	return &config, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	configDefaults(v)
	return v
}

var configFile string

// SetConfigFile makes GetConfig read path, which must then exist.
func SetConfigFile(path string) {
	configFile = path
}

// GetConfig reads cinezuva.{yaml,toml,json} from the working directory or
// /etc/cinezuva, or the file given to SetConfigFile.
func GetConfig() (*Config, error) {
	v := newViper()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("cinezuva")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/cinezuva")
	}
	return readConfig(v)
}

// Validate checks the settings the web server cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Session.Secret) < 16 {
		errs = append(errs, errors.New("Session.Secret must be at least 16 characters"))
	}
	if c.DB.Source == "" {
		errs = append(errs, errors.New("DB.Source is required"))
	}
	return errors.Join(errs...)
}

// LogLevel parses Log.Level, defaulting to info.
func (c *Config) LogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
