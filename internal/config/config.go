package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	RepositoryPostgres = "postgres"
	RepositorySQLite   = "sqlite"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	OpenAI     OpenAIConfig     `mapstructure:"openai"`
	Slack      SlackConfig      `mapstructure:"slack"`
	Summary    SummaryConfig    `mapstructure:"summary"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" validate:"required,numeric"`
	Host            string        `mapstructure:"host"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	RateLimitRPM    int           `mapstructure:"rate_limit_rpm" validate:"gte=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int32         `mapstructure:"max_connections" validate:"gte=1"`
	MinConnections int32         `mapstructure:"min_connections" validate:"gte=0,ltefield=MaxConnections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" validate:"gte=0"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type" validate:"oneof=postgres sqlite inmemory"`
}

type OpenAIConfig struct {
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url" validate:"required,url"`
	Model            string        `mapstructure:"model" validate:"required"`
	MaxTokens        int           `mapstructure:"max_tokens" validate:"gt=0"`
	Temperature      float64       `mapstructure:"temperature" validate:"gt=0,lte=2"`
	PresencePenalty  float64       `mapstructure:"presence_penalty" validate:"gte=-2,lte=2"`
	FrequencyPenalty float64       `mapstructure:"frequency_penalty" validate:"gte=-2,lte=2"`
	Timeout          time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type SlackConfig struct {
	WebhookURL string        `mapstructure:"webhook_url" validate:"omitempty,url"`
	Timeout    time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type SummaryConfig struct {
	// SingleFlight makes concurrent summarize triggers share one pipeline run.
	SingleFlight bool `mapstructure:"single_flight"`
	// Interval > 0 starts the scheduled summary worker.
	Interval time.Duration `mapstructure:"interval" validate:"gte=0"`
}

// Load reads .env, an optional config file and the environment, in that
// order of increasing precedence. An empty path looks for ./config.yml.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	if err := bindEnv(v); err != nil {
		return nil, fmt.Errorf("binding environment: %w", err)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Repository.Type = strings.ToLower(strings.TrimSpace(cfg.Repository.Type))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "5001")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.rate_limit_rpm", 100)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("sqlite.path", "todos.db")

	v.SetDefault("logging.development", false)
	v.SetDefault("logging.level", "info")

	v.SetDefault("repository.type", RepositoryPostgres)

	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.max_tokens", 800)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.presence_penalty", 0.1)
	v.SetDefault("openai.frequency_penalty", 0.1)
	v.SetDefault("openai.timeout", 60*time.Second)

	v.SetDefault("slack.webhook_url", "")
	v.SetDefault("slack.timeout", 10*time.Second)

	v.SetDefault("summary.single_flight", false)
	v.SetDefault("summary.interval", time.Duration(0))
}

func bindEnv(v *viper.Viper) error {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindings := map[string][]string{
		"server.port":       {"SERVER_PORT", "PORT"},
		"database.url":      {"DATABASE_URL", "SUPABASE_DB_URL"},
		"repository.type":   {"REPOSITORY_TYPE"},
		"openai.api_key":    {"OPENAI_API_KEY"},
		"slack.webhook_url": {"SLACK_WEBHOOK_URL"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return fmt.Errorf("validating config: %w", err)
	}

	problems := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		problems = append(problems, fmt.Sprintf("%s: failed on '%s'", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(repositoryStructLevel, Config{})
	return v
}

// repositoryStructLevel requires the connection settings of the selected backend.
func repositoryStructLevel(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	switch cfg.Repository.Type {
	case RepositoryPostgres:
		if strings.TrimSpace(cfg.Database.URL) == "" {
			sl.ReportError(cfg.Database.URL, "Database.URL", "URL", "required_for_postgres", "")
		}
	case RepositorySQLite:
		if strings.TrimSpace(cfg.SQLite.Path) == "" {
			sl.ReportError(cfg.SQLite.Path, "SQLite.Path", "Path", "required_for_sqlite", "")
		}
	}
}
