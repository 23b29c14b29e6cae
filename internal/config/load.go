package config

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads .env (optional), then app.yaml (optional) and environment overrides.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetConfigName("app")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", "8080")
	v.SetDefault("client.origin", "http://localhost:5173")
	v.SetDefault("feed.namespace", "feed")
	v.SetDefault("feed.welcome-text", "")
	v.SetDefault("feed.max-sessions", 10000)
	v.SetDefault("feed.session-ttl", "24h")
	v.SetDefault("mirror.enabled", false)
	v.SetDefault("mirror.timeout", "3s")
	v.SetDefault("auth.token-ttl", "24h")

	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_SSLMODE", "disable")
	v.SetDefault("ACCESS_SECRET", "")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Port:         v.GetString("app.port"),
		ClientOrigin: v.GetString("client.origin"),
		Feed: FeedConfig{
			Namespace:   v.GetString("feed.namespace"),
			WelcomeText: v.GetString("feed.welcome-text"),
			MaxSessions: v.GetInt("feed.max-sessions"),
			SessionTTL:  v.GetDuration("feed.session-ttl"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		DB: DBConfig{
			Username: v.GetString("POSTGRES_USER"),
			Password: v.GetString("POSTGRES_PASSWORD"),
			Host:     v.GetString("POSTGRES_HOST"),
			Port:     v.GetString("POSTGRES_PORT"),
			DBName:   v.GetString("POSTGRES_DATABASE"),
			SSLMode:  v.GetString("POSTGRES_SSLMODE"),
		},
		Mirror: MirrorConfig{
			Enabled: v.GetBool("mirror.enabled"),
			Timeout: v.GetDuration("mirror.timeout"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("ACCESS_SECRET"),
			TokenTTL:     v.GetDuration("auth.token-ttl"),
		},
	}
}
