package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingCredential indicates the generation service API key is absent.
// This is a fatal startup error.
var ErrMissingCredential = errors.New("generator API key not configured (set GEN_API_KEY)")

type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Run       RunConfig       `mapstructure:"run"`
	Validate  ValidateConfig  `mapstructure:"validate"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Path            string        `mapstructure:"path"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

type GeneratorConfig struct {
	Provider       string `mapstructure:"provider"`
	Model          string `mapstructure:"model"`
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	MaxTokens      int    `mapstructure:"max_tokens"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type RunConfig struct {
	BatchSize     int    `mapstructure:"batch_size"`
	MinIntervalMs int    `mapstructure:"min_interval_ms"`
	RetryCount    int    `mapstructure:"retry_count"`
	LedgerPath    string `mapstructure:"ledger_path"`
}

// MinInterval returns the throttle floor between generation calls.
func (c *RunConfig) MinInterval() time.Duration {
	return time.Duration(c.MinIntervalMs) * time.Millisecond
}

type ValidateConfig struct {
	TitleMinChars       int `mapstructure:"title_min_chars"`
	TitleMaxChars       int `mapstructure:"title_max_chars"`
	DescriptionMinWords int `mapstructure:"description_min_words"`
	DescriptionMaxWords int `mapstructure:"description_max_words"`
	SummaryMaxChars     int `mapstructure:"summary_max_chars"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/catalog.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("generator.provider", "openai")
	v.SetDefault("generator.model", "gpt-4o-mini")
	v.SetDefault("generator.base_url", "https://api.openai.com/v1")
	v.SetDefault("generator.max_tokens", 4096)
	v.SetDefault("generator.timeout_seconds", 60)
	v.SetDefault("run.batch_size", 5)
	v.SetDefault("run.min_interval_ms", 800)
	v.SetDefault("run.retry_count", 3)
	v.SetDefault("run.ledger_path", "./seo_ledger.json")
	v.SetDefault("validate.title_min_chars", 20)
	v.SetDefault("validate.title_max_chars", 120)
	v.SetDefault("validate.description_min_words", 40)
	v.SetDefault("validate.description_max_words", 200)
	v.SetDefault("validate.summary_max_chars", 160)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("generator.api_key", "GEN_API_KEY")
	v.BindEnv("generator.base_url", "GEN_BASE_URL")
	v.BindEnv("generator.model", "GEN_MODEL")
	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.path", "DATABASE_PATH")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("run.ledger_path", "LEDGER_PATH")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateStartup checks the settings a run cannot start without.
func (c *Config) ValidateStartup() error {
	if c.Generator.APIKey == "" {
		return ErrMissingCredential
	}
	if c.Run.BatchSize <= 0 {
		return fmt.Errorf("run.batch_size must be positive, got %d", c.Run.BatchSize)
	}
	return nil
}
