package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type AuthConfig struct {
	Secret            string `yaml:"secret"`
	AccessTTL         string `yaml:"access_ttl"`          // по умолчанию 720h (30 дней)
	RefreshTTL        string `yaml:"refresh_ttl"`         // по умолчанию 2160h (90 дней)
	PinTTL            string `yaml:"pin_ttl"`             // по умолчанию 5m
	ResetTokenMaxAge  string `yaml:"reset_token_max_age"` // по умолчанию 48h
	FrontendHostname  string `yaml:"frontend_hostname"`
	accessTTL         time.Duration
	refreshTTL        time.Duration
	pinTTL            time.Duration
	resetTokenMaxAge  time.Duration
}

func (a *AuthConfig) AccessLifetime() time.Duration  { return a.accessTTL }
func (a *AuthConfig) RefreshLifetime() time.Duration { return a.refreshTTL }
func (a *AuthConfig) PinLifetime() time.Duration     { return a.pinTTL }
func (a *AuthConfig) ResetMaxAge() time.Duration     { return a.resetTokenMaxAge }

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Redis RedisConfig `yaml:"redis"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Auth  AuthConfig `yaml:"auth"`
	Debug bool       `yaml:"debug"` // в debug get-pin отдаёт сырой код в ответе
}

func LoadConfig() *Config {
	cfg, err := LoadConfigFile("config/config.yaml")
	if err != nil {
		panic("Failed to load config.yaml: " + err.Error())
	}
	return cfg
}

func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.fillDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) fillDefaults() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Auth.Secret == "" {
		// секрет обязателен: без него токены всех окружений взаимозаменяемы
		return fmt.Errorf("auth.secret is required")
	}

	var err error
	if c.Auth.accessTTL, err = durationOr(c.Auth.AccessTTL, 720*time.Hour); err != nil {
		return fmt.Errorf("auth.access_ttl: %w", err)
	}
	if c.Auth.refreshTTL, err = durationOr(c.Auth.RefreshTTL, 2160*time.Hour); err != nil {
		return fmt.Errorf("auth.refresh_ttl: %w", err)
	}
	if c.Auth.pinTTL, err = durationOr(c.Auth.PinTTL, 5*time.Minute); err != nil {
		return fmt.Errorf("auth.pin_ttl: %w", err)
	}
	if c.Auth.resetTokenMaxAge, err = durationOr(c.Auth.ResetTokenMaxAge, 48*time.Hour); err != nil {
		return fmt.Errorf("auth.reset_token_max_age: %w", err)
	}
	return nil
}

func durationOr(raw string, def time.Duration) (time.Duration, error) {
	if raw == "" {
		return def, nil
	}
	return time.ParseDuration(raw)
}
