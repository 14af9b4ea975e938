// Package config resolves runtime settings: defaults, then an optional
// YAML file, then DEMOSHOP_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDev  = "dev"
	envPfx  = "DEMOSHOP_"
	minJWT  = 32
	devJWT  = "dev-only-secret-change-me-0123456789"
	defPort = 8080
)

type Config struct {
	Service string
	Env     string
	Port    int

	LogLevel  string
	LogFormat string

	StorageDriver string
	RedisURL      string
	PostgresURL   string
	Namespace     string

	JWTSecret string
	TokenTTL  time.Duration

	PasswordHashing string
	BcryptCost      int

	LoginRateLimit  int
	SignupRateLimit int
	RateWindow      time.Duration

	MetricsEnabled bool
	MetricsToken   string

	KafkaBrokers []string
	KafkaTopic   string

	ShutdownTimeout time.Duration
}

// file mirrors the YAML layout of configs/demoshop.yaml.
type file struct {
	Service struct {
		Name string `yaml:"name"`
		Env  string `yaml:"env"`
		Port int    `yaml:"port"`
	} `yaml:"service"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Storage struct {
		Driver      string `yaml:"driver"`
		RedisURL    string `yaml:"redis_url"`
		PostgresURL string `yaml:"postgres_url"`
		Namespace   string `yaml:"namespace"`
	} `yaml:"storage"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTL        string `yaml:"token_ttl"`
		PasswordHashing string `yaml:"password_hashing"`
		BcryptCost      int    `yaml:"bcrypt_cost"`
		LoginRateLimit  int    `yaml:"login_rate_limit"`
		SignupRateLimit int    `yaml:"signup_rate_limit"`
		RateWindow      string `yaml:"rate_window"`
	} `yaml:"auth"`
	Metrics struct {
		Enabled *bool  `yaml:"enabled"`
		Token   string `yaml:"token"`
	} `yaml:"metrics"`
	Kafka struct {
		Brokers []string `yaml:"brokers"`
		Topic   string   `yaml:"topic"`
	} `yaml:"kafka"`
}

func Default() Config {
	return Config{
		Service:         "demoshop",
		Env:             EnvDev,
		Port:            defPort,
		LogLevel:        "info",
		LogFormat:       "json",
		StorageDriver:   "memory",
		Namespace:       "demoshop",
		TokenTTL:        time.Hour,
		PasswordHashing: "plain",
		LoginRateLimit:  10,
		SignupRateLimit: 5,
		RateWindow:      time.Minute,
		MetricsEnabled:  true,
		KafkaTopic:      "demoshop.orders",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load resolves configuration. A missing file at path is not an error;
// an empty path skips the file stage.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, err
			}
		case !errors.Is(err, os.ErrNotExist):
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if cfg.JWTSecret == "" && cfg.Env == EnvDev {
		cfg.JWTSecret = devJWT
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyFile(raw []byte) error {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.Service, f.Service.Name)
	setString(&c.Env, f.Service.Env)
	if f.Service.Port > 0 {
		c.Port = f.Service.Port
	}
	setString(&c.LogLevel, f.Log.Level)
	setString(&c.LogFormat, f.Log.Format)

	setString(&c.StorageDriver, f.Storage.Driver)
	setString(&c.RedisURL, f.Storage.RedisURL)
	setString(&c.PostgresURL, f.Storage.PostgresURL)
	setString(&c.Namespace, f.Storage.Namespace)

	setString(&c.JWTSecret, f.Auth.JWTSecret)
	if err := setDuration(&c.TokenTTL, "auth.token_ttl", f.Auth.TokenTTL); err != nil {
		return err
	}
	setString(&c.PasswordHashing, f.Auth.PasswordHashing)
	if f.Auth.BcryptCost > 0 {
		c.BcryptCost = f.Auth.BcryptCost
	}
	if f.Auth.LoginRateLimit != 0 {
		c.LoginRateLimit = f.Auth.LoginRateLimit
	}
	if f.Auth.SignupRateLimit != 0 {
		c.SignupRateLimit = f.Auth.SignupRateLimit
	}
	if err := setDuration(&c.RateWindow, "auth.rate_window", f.Auth.RateWindow); err != nil {
		return err
	}

	if f.Metrics.Enabled != nil {
		c.MetricsEnabled = *f.Metrics.Enabled
	}
	setString(&c.MetricsToken, f.Metrics.Token)

	if len(f.Kafka.Brokers) > 0 {
		c.KafkaBrokers = f.Kafka.Brokers
	}
	setString(&c.KafkaTopic, f.Kafka.Topic)
	return nil
}

func (c *Config) applyEnv() error {
	c.Service = envOrDefault("SERVICE", c.Service)
	c.Env = envOrDefault("ENV", c.Env)
	c.LogLevel = envOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = envOrDefault("LOG_FORMAT", c.LogFormat)
	c.StorageDriver = envOrDefault("STORAGE_DRIVER", c.StorageDriver)
	c.RedisURL = envOrDefault("REDIS_URL", c.RedisURL)
	c.PostgresURL = envOrDefault("POSTGRES_URL", c.PostgresURL)
	c.Namespace = envOrDefault("NAMESPACE", c.Namespace)
	c.JWTSecret = envOrDefault("JWT_SECRET", c.JWTSecret)
	c.PasswordHashing = envOrDefault("PASSWORD_HASHING", c.PasswordHashing)
	c.MetricsToken = envOrDefault("METRICS_TOKEN", c.MetricsToken)
	c.KafkaTopic = envOrDefault("KAFKA_TOPIC", c.KafkaTopic)
	c.KafkaBrokers = envCSV("KAFKA_BROKERS", c.KafkaBrokers)
	c.MetricsEnabled = envBool("METRICS_ENABLED", c.MetricsEnabled)

	var err error
	if c.Port, err = envInt("PORT", c.Port); err != nil {
		return err
	}
	if c.BcryptCost, err = envInt("BCRYPT_COST", c.BcryptCost); err != nil {
		return err
	}
	if c.LoginRateLimit, err = envInt("LOGIN_RATE_LIMIT", c.LoginRateLimit); err != nil {
		return err
	}
	if c.SignupRateLimit, err = envInt("SIGNUP_RATE_LIMIT", c.SignupRateLimit); err != nil {
		return err
	}
	if c.TokenTTL, err = envDuration("TOKEN_TTL", c.TokenTTL); err != nil {
		return err
	}
	if c.RateWindow, err = envDuration("RATE_WINDOW", c.RateWindow); err != nil {
		return err
	}
	if c.ShutdownTimeout, err = envDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout); err != nil {
		return err
	}
	return nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if len(c.JWTSecret) < minJWT {
		return fmt.Errorf("jwt secret is required and must be at least %d chars", minJWT)
	}
	if c.TokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	switch c.StorageDriver {
	case "memory":
	case "redis":
		if c.RedisURL == "" {
			return errors.New("redis storage requires DEMOSHOP_REDIS_URL")
		}
	case "postgres":
		if c.PostgresURL == "" {
			return errors.New("postgres storage requires DEMOSHOP_POSTGRES_URL")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
	return nil
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func envOrDefault(name, fallback string) string {
	if v := os.Getenv(envPfx + name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	raw := os.Getenv(envPfx + name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPfx, name, err)
	}
	return v, nil
}

func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(envPfx + name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s%s: %w", envPfx, name, err)
	}
	return d, nil
}

func envBool(name string, fallback bool) bool {
	switch os.Getenv(envPfx + name) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return fallback
	}
}

func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(envPfx + name)
	if raw == "" {
		return fallback
	}
	var parts []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
