package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"mediwallet/internal/domain"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	AppName     string   `mapstructure:"app_name"`
	Env         string   `mapstructure:"env"`
	Debug       bool     `mapstructure:"debug"`
	CORSOrigins []string `mapstructure:"cors_origins"`

	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	Assets   AssetsConfig   `mapstructure:"assets"`
	Platform PlatformConfig `mapstructure:"platform"`
	Polling  PollingConfig  `mapstructure:"polling"`
	Share    ShareConfig    `mapstructure:"share"`
	AI       AIConfig       `mapstructure:"ai"`
}

type HTTPConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	URL    string `mapstructure:"url"`
}

type AssetsConfig struct {
	Dir      string `mapstructure:"dir"`
	S3Bucket string `mapstructure:"s3_bucket"`
	S3Prefix string `mapstructure:"s3_prefix"`
}

// PlatformConfig describes host capabilities.
type PlatformConfig struct {
	LocalStorage bool `mapstructure:"local_storage"`
}

type PollingConfig struct {
	ChatInterval          time.Duration `mapstructure:"chat_interval"`
	ConversationsInterval time.Duration `mapstructure:"conversations_interval"`
}

type ShareConfig struct {
	Secret      string        `mapstructure:"secret"`
	MaxDuration time.Duration `mapstructure:"max_duration"`
}

type AIConfig struct {
	StubMode bool          `mapstructure:"stub_mode"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "mediwallet")
	v.SetDefault("env", "development")
	v.SetDefault("debug", false)
	v.SetDefault("cors_origins", []string{"http://localhost:3000", "http://localhost:8081"})
	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8000)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.path", "data/medical_records.db")
	v.SetDefault("database.url", "")
	v.SetDefault("assets.dir", "data/test_images")
	v.SetDefault("assets.s3_bucket", "")
	v.SetDefault("assets.s3_prefix", "test_images/")
	v.SetDefault("platform.local_storage", true)
	v.SetDefault("polling.chat_interval", 2*time.Second)
	v.SetDefault("polling.conversations_interval", 5*time.Second)
	v.SetDefault("share.secret", "")
	v.SetDefault("share.max_duration", domain.MaxShareDuration)
	v.SetDefault("ai.stub_mode", false)
	v.SetDefault("ai.timeout", 60*time.Second)
}

// Load reads defaults, then the YAML file named by MEDIWALLET_CONFIG (if
// any), then MEDIWALLET_* environment variables.
func Load() (*Config, error) {
	return LoadFile(os.Getenv("MEDIWALLET_CONFIG"))
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MEDIWALLET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be in 1..65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for postgres")
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Polling.ChatInterval <= 0 || c.Polling.ConversationsInterval <= 0 {
		return fmt.Errorf("polling intervals must be positive")
	}
	if c.Share.MaxDuration <= 0 || c.Share.MaxDuration > domain.MaxShareDuration {
		return fmt.Errorf("share.max_duration must be in (0, %s]", domain.MaxShareDuration)
	}
	if c.Platform.LocalStorage && c.Share.Secret == "" {
		return fmt.Errorf("share.secret is required")
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

func trimAll(in []string) []string {
	out := in[:0]
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
