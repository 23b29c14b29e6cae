package config

import (
	"fmt"
	"net/http"
	"time"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type FeedConfig struct {
	// Namespace scopes all store keys; one namespace behaves like one browser origin.
	Namespace   string
	WelcomeText string
	MaxSessions int
	SessionTTL  time.Duration
}

type MirrorConfig struct {
	Enabled bool
	Timeout time.Duration
}

type AuthConfig struct {
	AccessSecret string
	TokenTTL     time.Duration
}

type Config struct {
	Port         string
	ClientOrigin string
	Feed         FeedConfig
	Redis        RedisConfig
	DB           DBConfig
	Mirror       MirrorConfig
	Auth         AuthConfig
}
