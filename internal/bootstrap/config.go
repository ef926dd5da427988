package bootstrap

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	TcpPort    string `mapstructure:"TCP_PORT"`
	GrpcPort   string `mapstructure:"GRPC_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	RedisUrl       string        `mapstructure:"REDIS_URL"`
	MongoUri       string        `mapstructure:"MONGO_URI"`
	MongoDatabase  string        `mapstructure:"MONGO_DATABASE"`
	DatabaseDriver string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseUrl    string        `mapstructure:"DATABASE_URL"`
	StoreTimeout   time.Duration `mapstructure:"STORE_TIMEOUT"`

	BotPollInterval time.Duration `mapstructure:"BOT_POLL_INTERVAL"`
	BotMaxAttempts  int           `mapstructure:"BOT_MAX_ATTEMPTS"`
	BotStartDelay   time.Duration `mapstructure:"BOT_START_DELAY"`

	OtelEndpoint string `mapstructure:"OTEL_ENDPOINT"`
}

var defaults = map[string]any{
	"SERVER_PORT":       ":8080",
	"TCP_PORT":          ":58901",
	"GRPC_PORT":         ":8082",
	"LOG_LEVEL":         "info",
	"REDIS_URL":         "",
	"MONGO_URI":         "",
	"MONGO_DATABASE":    "gogame",
	"DATABASE_DRIVER":   "postgres",
	"DATABASE_URL":      "",
	"STORE_TIMEOUT":     "5s",
	"BOT_POLL_INTERVAL": "1s",
	"BOT_MAX_ATTEMPTS":  10,
	"BOT_START_DELAY":   "2s",
	"OTEL_ENDPOINT":     "",
}

// Setup reads cfgPath when it exists and lets the environment override every key.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
