package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
)

const EnvProduction = "production"

// DB holds the relational store settings.
type DB struct {
	Driver         string        `env:"DB_DRIVER"          envDefault:"postgres"`
	Host           string        `env:"DB_HOST"            envDefault:"localhost"`
	User           string        `env:"DB_USER"            envDefault:"root"`
	Password       string        `env:"DB_PASSWORD"        envDefault:"root"`
	Name           string        `env:"DB_NAME"            envDefault:"joke"`
	Port           int           `env:"DB_PORT"            envDefault:"5432"`
	ConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"10s"`
	Path           string        `env:"DB_PATH"            envDefault:"jokes.db"`
	MaxConns       int           `env:"DB_MAX_CONNS"       envDefault:"10"`
}

// Server holds the content service settings.
type Server struct {
	Port      string `env:"PORT"       envDefault:"3000"`
	Env       string `env:"APP_ENV"    envDefault:"development"`
	StaticDir string `env:"STATIC_DIR"`
	DB        DB
}

// Client holds the viewer settings.
type Client struct {
	ServerURL      string        `env:"JOKEBOX_SERVER_URL"      envDefault:"http://localhost:3000"`
	Cache          string        `env:"JOKEBOX_CACHE"           envDefault:"badger"`
	BadgerPath     string        `env:"JOKEBOX_BADGER_PATH"     envDefault:"./jokebox-cache"`
	RedisAddr      string        `env:"JOKEBOX_REDIS_ADDR"      envDefault:"localhost:6379"`
	RequestTimeout time.Duration `env:"JOKEBOX_REQUEST_TIMEOUT" envDefault:"15s"`
	ProbeInterval  time.Duration `env:"JOKEBOX_PROBE_INTERVAL"  envDefault:"5s"`
}

// Production reports whether error details must be hidden from responses.
func (s Server) Production() bool {
	return s.Env == EnvProduction
}

// LoadServer reads the content service configuration from the environment.
func LoadServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DB.MaxConns <= 0 {
		cfg.DB.MaxConns = 10
	}
	return cfg, nil
}

// LoadClient reads the viewer configuration from the environment.
func LoadClient() (Client, error) {
	var cfg Client
	if err := env.Parse(&cfg); err != nil {
		return Client{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// DSN builds the driver data source name.
func (d DB) DSN() (string, error) {
	switch d.Driver {
	case "postgres":
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(d.User, d.Password),
			Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
			Path:   "/" + d.Name,
		}
		q := url.Values{}
		q.Set("sslmode", "disable")
		if d.ConnectTimeout > 0 {
			// lib/pq takes whole seconds
			secs := int(d.ConnectTimeout.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			q.Set("connect_timeout", strconv.Itoa(secs))
		}
		u.RawQuery = q.Encode()
		return u.String(), nil
	case "sqlite":
		if d.Path == "" {
			return "", fmt.Errorf("sqlite path is required")
		}
		timeout := d.ConnectTimeout.Milliseconds()
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", d.Path, timeout), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", d.Driver)
	}
}
