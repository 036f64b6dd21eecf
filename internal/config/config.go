package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Env      string `env:"ENV" envDefault:"development"`
	BindIP   string `env:"BIND_IP" envDefault:"127.0.0.1"`
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// SecretLen is the raw byte length of generated TOTP secrets, before
	// base32 encoding (20 bytes encodes to 32 characters).
	SecretLen int `env:"AUTH_SECRET_LEN" envDefault:"20"`
	// DefaultWidth and DefaultHeight size rendered QR codes in pixels.
	// Requests cannot override them.
	DefaultWidth  int `env:"AUTH_DEFAULT_WIDTH" envDefault:"200"`
	DefaultHeight int `env:"AUTH_DEFAULT_HEIGHT" envDefault:"200"`
	// TOTPSkew is the number of adjacent 30-second windows accepted around
	// the current one during verification. 0 means the current window only.
	TOTPSkew uint `env:"AUTH_TOTP_SKEW" envDefault:"0"`

	// DatabaseURL, when set, wins over the individual DB_* values.
	DatabaseURL string `env:"DATABASE_URL"`
	DBHost      string `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort      int    `env:"DB_PORT" envDefault:"5432"`
	DBName      string `env:"DB_NAME" envDefault:"gauth"`
	DBUser      string `env:"DB_USER" envDefault:"gauth"`
	DBPassword  string `env:"DB_PASSWORD"`
	DBSSLMode   string `env:"DB_SSLMODE" envDefault:"prefer"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.DBPort <= 0 || cfg.DBPort > 65535 {
		return Config{}, fmt.Errorf("invalid DB_PORT %d", cfg.DBPort)
	}
	if cfg.SecretLen <= 0 {
		return Config{}, fmt.Errorf("invalid AUTH_SECRET_LEN %d", cfg.SecretLen)
	}
	if cfg.DefaultWidth <= 0 || cfg.DefaultHeight <= 0 {
		return Config{}, fmt.Errorf("invalid QR dimensions %dx%d", cfg.DefaultWidth, cfg.DefaultHeight)
	}

	return cfg, nil
}

// LoadDotEnvIfPresent loads key=value pairs from a .env file into the process
// environment for local development. Existing environment variables are not
// overwritten; a missing file is not an error.
func LoadDotEnvIfPresent(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindIP, c.Port)
}

func (c Config) PostgresURL() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}

	if c.DBHost == "" || c.DBName == "" || c.DBUser == "" {
		return "", errors.New("DB_HOST, DB_NAME and DB_USER are required when DATABASE_URL is unset")
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   c.DBName,
	}

	q := u.Query()
	q.Set("sslmode", c.DBSSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
