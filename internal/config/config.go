package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"smarthire/internal/errors"
)

// Config holds all application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	Backend       BackendConfig       `mapstructure:"backend"`
	Storage       StorageConfig       `mapstructure:"storage"`
	AI            AIConfig            `mapstructure:"ai"`
	Watch         WatchConfig         `mapstructure:"watch"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Vault         VaultConfig         `mapstructure:"vault"`
}

// AppConfig holds general application settings
type AppConfig struct {
	LogLevel         string   `mapstructure:"log_level"`
	DefaultFormat    string   `mapstructure:"default_format"`
	SupportedFormats []string `mapstructure:"supported_formats"`
	MaxFileSize      int64    `mapstructure:"max_file_size"`
}

// BackendConfig holds settings for the screening backend HTTP API
type BackendConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
	CircuitBreaker CBConfig      `mapstructure:"circuit_breaker"`
}

// CBConfig holds circuit breaker tuning for backend calls
type CBConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// StorageConfig holds local persistence settings
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// AIConfig holds settings for AI-assisted generation endpoints
type AIConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateBurst      int     `mapstructure:"rate_burst"`
	ScoreThreshold int     `mapstructure:"score_threshold"`
}

// WatchConfig holds resume drop-directory watcher settings
type WatchConfig struct {
	Dir        string   `mapstructure:"dir"`
	Extensions []string `mapstructure:"extensions"`
}

// ObservabilityConfig holds OpenTelemetry settings
type ObservabilityConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	ServiceVersion string `mapstructure:"service_version"`
	Environment    string `mapstructure:"environment"`
	ExporterType   string `mapstructure:"exporter_type"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// VaultConfig holds HashiCorp Vault connection settings
type VaultConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
}

// Load reads configuration from file, environment, and Vault
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("smarthire")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.smarthire")
	v.AddConfigPath("/etc/smarthire")

	v.SetEnvPrefix("SMARTHIRE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to read config file", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to unmarshal config", err)
	}

	applyFallbacks(&cfg)

	if cfg.Vault.Enabled {
		if err := ApplyVaultSecrets(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.default_format", "text")
	v.SetDefault("app.supported_formats", []string{"text", "json", "markdown"})
	v.SetDefault("app.max_file_size", int64(10*1024*1024))

	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", 60*time.Second)
	v.SetDefault("backend.circuit_breaker.max_requests", uint32(3))
	v.SetDefault("backend.circuit_breaker.interval", 60*time.Second)
	v.SetDefault("backend.circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("backend.circuit_breaker.min_requests", uint32(5))
	v.SetDefault("backend.circuit_breaker.failure_ratio", 0.6)

	v.SetDefault("storage.path", "")

	v.SetDefault("ai.enabled", true)
	v.SetDefault("ai.rate_limit", 2.0)
	v.SetDefault("ai.rate_burst", 2)
	v.SetDefault("ai.score_threshold", 70)

	v.SetDefault("watch.dir", "")
	v.SetDefault("watch.extensions", []string{".pdf", ".doc", ".docx", ".txt"})

	v.SetDefault("observability.enabled", false)
	v.SetDefault("observability.service_name", "smarthire")
	v.SetDefault("observability.service_version", "1.0.0")
	v.SetDefault("observability.environment", "development")
	v.SetDefault("observability.exporter_type", "stdout")
	v.SetDefault("observability.prometheus_port", 9090)

	v.SetDefault("vault.enabled", false)
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "smarthire")
}

func applyFallbacks(cfg *Config) {
	if cfg.Storage.Path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			cfg.Storage.Path = "smarthire.db"
		} else {
			cfg.Storage.Path = filepath.Join(home, ".smarthire", "smarthire.db")
		}
	}
	if cfg.Backend.APIKey == "" {
		cfg.Backend.APIKey = os.Getenv("SMARTHIRE_API_KEY")
	}
	if cfg.Vault.Address == "" {
		cfg.Vault.Address = os.Getenv("VAULT_ADDR")
	}
	if cfg.Vault.Token == "" {
		cfg.Vault.Token = os.Getenv("VAULT_TOKEN")
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "backend base URL is required", nil)
	}
	if c.Backend.Timeout <= 0 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "backend timeout must be positive", nil)
	}

	validFormat := false
	for _, f := range c.App.SupportedFormats {
		if c.App.DefaultFormat == f {
			validFormat = true
			break
		}
	}
	if !validFormat {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("default format %q is not in supported formats %v", c.App.DefaultFormat, c.App.SupportedFormats), nil)
	}

	if c.AI.ScoreThreshold < 0 || c.AI.ScoreThreshold > 100 {
		return errors.NewConfigError(errors.ErrCodeInvalidConfig, "score threshold must be between 0 and 100", nil)
	}

	if c.Vault.Enabled {
		if c.Vault.Address == "" {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig, "vault address is required when vault is enabled", nil)
		}
		if c.Vault.Token == "" {
			return errors.NewConfigError(errors.ErrCodeInvalidConfig, "vault token is required when vault is enabled", nil)
		}
	}

	return nil
}
