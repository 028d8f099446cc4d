package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"mrcfield/internal/bootstrap/logging"
	"mrcfield/internal/errs"
)

const EnvPrefix = "MRC"

type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Database  DatabaseConfig  `mapstructure:"database"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Log       LogConfig       `mapstructure:"log"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	JobNumber JobNumberConfig `mapstructure:"jobnumber"`
	AI        AIConfig        `mapstructure:"ai"`
	Events    EventsConfig    `mapstructure:"events"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Addr         string        `mapstructure:"addr"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PricingConfig struct {
	// Empty means the built-in rate card.
	RateCardFile string `mapstructure:"rate_card_file"`
}

type JobNumberConfig struct {
	Prefix string `mapstructure:"prefix"`
}

type AIConfig struct {
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	Model        string `mapstructure:"model"`
	BaseURL      string `mapstructure:"base_url"`
}

type EventsConfig struct {
	NATSURL string `mapstructure:"nats_url"`
	Subject string `mapstructure:"subject"`
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	if err := loadDotEnv(logCtx); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(logCtx, v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("database_driver", cfg.Database.Driver),
		slog.Bool("openai_enabled", cfg.AI.OpenAIAPIKey != ""),
		slog.Bool("nats_enabled", cfg.Events.NATSURL != ""),
	)

	return cfg, nil
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}
	switch strings.ToLower(c.Database.Driver) {
	case "sqlite", "sqlite3", "postgres", "postgresql":
	default:
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.HTTP.ReadTimeout < 0 || c.HTTP.WriteTimeout < 0 {
		return errors.New("http timeouts must not be negative")
	}
	if strings.TrimSpace(c.JobNumber.Prefix) == "" {
		return errors.New("jobnumber.prefix is required")
	}
	return nil
}

// loadDotEnv exports a local .env file into the process environment. Real
// environment variables keep precedence.
func loadDotEnv(ctx context.Context) error {
	path := os.Getenv(EnvPrefix + "_DOTENV")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errs.Wrapf(err, "load env file %q", path)
	}
	logging.Info(ctx, "env file loaded", slog.String("path", path))
	return nil
}

func setDefaults(ctx context.Context, v *viper.Viper) {
	if ctx == nil {
		return
	}

	v.SetDefault("app.name", "mrcfield")
	v.SetDefault("app.env", "local")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".data/mrcfield.sqlite")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", "15s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("pricing.rate_card_file", "")
	v.SetDefault("jobnumber.prefix", "MRC")
	v.SetDefault("ai.openai_api_key", "")
	v.SetDefault("ai.model", "gpt-4o")
	v.SetDefault("ai.base_url", "")
	v.SetDefault("events.nats_url", "")
	v.SetDefault("events.subject", "mrc.inspection.completed")
}
