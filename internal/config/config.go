package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Redis    RedisConfig    `yaml:"redis"`
	Orders   OrdersConfig   `yaml:"orders"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	TenantHeader    string        `yaml:"tenant_header"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
	MaxConns int32  `yaml:"max_conns"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
}

type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type OrdersConfig struct {
	// AllowNegativeTotal stores orders whose discount exceeds subtotal plus
	// delivery fee. Set it to false to reject them instead.
	AllowNegativeTotal bool `yaml:"allow_negative_total"`
	LowStockThreshold  int  `yaml:"low_stock_threshold"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			TenantHeader:    "X-Tenant-ID",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "orderdesk",
			Database: "orderdesk",
			SSLMode:  "disable",
			MaxConns: 10,
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			Exchange: "orders_topic",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
			TTL:  time.Minute,
		},
		Orders: OrdersConfig{
			AllowNegativeTotal: true,
			LowStockThreshold:  10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the yaml file at path on top of Default, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse yaml: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.TenantHeader == "" {
		return errors.New("server tenant_header is required")
	}
	if c.Database.Host == "" || c.Database.Database == "" {
		return errors.New("database host and name are required")
	}
	if c.Orders.LowStockThreshold < 0 {
		return fmt.Errorf("invalid low stock threshold: %d", c.Orders.LowStockThreshold)
	}
	return nil
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Database, d.SSLMode)
}

func (r RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", r.User, r.Password, r.Host, r.Port)
}

func applyEnv(cfg *Config) error {
	strs := map[string]*string{
		"DATABASE_HOST":     &cfg.Database.Host,
		"DATABASE_USER":     &cfg.Database.User,
		"DATABASE_PASSWORD": &cfg.Database.Password,
		"DATABASE_NAME":     &cfg.Database.Database,
		"DATABASE_SSLMODE":  &cfg.Database.SSLMode,
		"RABBITMQ_HOST":     &cfg.RabbitMQ.Host,
		"RABBITMQ_USER":     &cfg.RabbitMQ.User,
		"RABBITMQ_PASSWORD": &cfg.RabbitMQ.Password,
		"REDIS_ADDR":        &cfg.Redis.Addr,
		"REDIS_PASSWORD":    &cfg.Redis.Password,
		"LOG_LEVEL":         &cfg.Logging.Level,
		"TENANT_HEADER":     &cfg.Server.TenantHeader,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HTTP_PORT":     &cfg.Server.Port,
		"DATABASE_PORT": &cfg.Database.Port,
		"RABBITMQ_PORT": &cfg.RabbitMQ.Port,
		"REDIS_DB":      &cfg.Redis.DB,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = n
	}

	bools := map[string]*bool{
		"RABBITMQ_ENABLED":            &cfg.RabbitMQ.Enabled,
		"REDIS_ENABLED":               &cfg.Redis.Enabled,
		"ORDERS_ALLOW_NEGATIVE_TOTAL": &cfg.Orders.AllowNegativeTotal,
	}
	for key, dst := range bools {
		v, ok := os.LookupEnv(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = b
	}

	return nil
}
