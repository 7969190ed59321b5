package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

const envPrefix = "APP"

type AppConfig struct {
	API          *APIConfig          `mapstructure:"api"`
	Gin          *GinConfig          `mapstructure:"gin"`
	Log          *LogConfig          `mapstructure:"log"`
	Upstream     *UpstreamConfig     `mapstructure:"upstream"`
	Session      *SessionConfig      `mapstructure:"session"`
	Database     *DatabaseConfig     `mapstructure:"database"`
	Confirmation *ConfirmationConfig `mapstructure:"confirmation"`
}

type APIConfig struct {
	Environment        string   `mapstructure:"environment"`
	Port               string   `mapstructure:"port"`
	BaseURL            string   `mapstructure:"base_url"`
	AllowedCORSDomains []string `mapstructure:"allowed_cors_domains"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// UpstreamConfig points at the tender REST backend.
type UpstreamConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxUploadMB int64         `mapstructure:"max_upload_mb"`
}

const (
	SessionDriverCookie   = "cookie"
	SessionDriverDatabase = "database"
)

type SessionConfig struct {
	Driver string        `mapstructure:"driver"`
	Secret string        `mapstructure:"secret"`
	MaxAge time.Duration `mapstructure:"max_age"`
	Secure bool          `mapstructure:"secure"`
}

type DatabaseConfig struct {
	Dialect  string `mapstructure:"dialect"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	URL      string `mapstructure:"url"`
}

type ConfirmationConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("log.level", "info")
	v.SetDefault("upstream.base_url", "")
	v.SetDefault("upstream.timeout", 15*time.Second)
	v.SetDefault("upstream.max_upload_mb", 20)
	v.SetDefault("session.driver", SessionDriverCookie)
	v.SetDefault("session.secret", "")
	v.SetDefault("session.max_age", 24*time.Hour)
	v.SetDefault("session.secure", false)
	v.SetDefault("database.dialect", "postgres")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.url", "")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("confirmation.ttl", 5*time.Minute)
}

// Load reads the YAML file at path, then applies APP_* environment overrides
// (APP_UPSTREAM_BASE_URL overrides upstream.base_url, and so on).
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing file leaves defaults and APP_* variables.
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf, err := decode(v)
	if err != nil {
		return nil, err
	}

	return conf, nil
}

// Watch calls onChange with the reloaded config whenever the file at path
// changes. Reload errors are passed along and the previous config stays in effect.
func Watch(path string, onChange func(*AppConfig, error)) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		onChange(nil, fmt.Errorf("v.ReadInConfig -> %w", err))
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(decode(v))
	})
	v.WatchConfig()
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func (c *AppConfig) validate() error {
	if c.Upstream == nil || c.Upstream.BaseURL == "" {
		return errors.New("upstream.base_url is required")
	}

	switch c.Session.Driver {
	case SessionDriverCookie, SessionDriverDatabase:
	default:
		return fmt.Errorf("unknown session.driver %q", c.Session.Driver)
	}

	if len(c.Session.Secret) < 32 {
		return errors.New("session.secret must be at least 32 characters")
	}

	return nil
}

// DSN builds the connection string for the configured dialect unless a full
// URL was given.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	if c.Dialect == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			c.User, c.Password, c.Host, c.Port, c.Name)
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
