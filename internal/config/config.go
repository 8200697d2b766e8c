package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the service.
type Config struct {
	AppPort         string        `mapstructure:"APP_PORT" validate:"required"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	DBDriver          string        `mapstructure:"DB_DRIVER" validate:"oneof=postgres sqlite mysql"`
	DatabaseDSN       string        `mapstructure:"DATABASE_DSN" validate:"required"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS" validate:"gte=0"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS" validate:"gte=0"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME" validate:"gte=0"`
	DBLogLevel        string        `mapstructure:"DB_LOG_LEVEL" validate:"oneof=silent error warn info"`

	// RabbitMQURL left empty disables order event publishing.
	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	RabbitMQExchange string `mapstructure:"RABBITMQ_EXCHANGE" validate:"required_with=RabbitMQURL"`
	RabbitMQConsume  bool   `mapstructure:"RABBITMQ_CONSUME"`

	LogLevel    string `mapstructure:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	LogEncoding string `mapstructure:"LOG_ENCODING" validate:"oneof=json console"`
}

// SetDefaults registers every known key on v. Keys must be known to viper
// before AutomaticEnv can feed them into Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=ecomstore port=5432 sslmode=disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_LOG_LEVEL", "warn")

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "orders")
	v.SetDefault("RABBITMQ_CONSUME", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_ENCODING", "json")
}

// Load reads configuration from defaults, an optional config file and the
// environment, in increasing order of precedence.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	SetDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// EventsEnabled reports whether order events should be published.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
