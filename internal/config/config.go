// Package config загружает конфигурацию сервиса из TOML-файла
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config - конфигурация сервиса записей
type Config struct {
	Server              Server              `toml:"server"`
	Database            Database            `toml:"database"`
	Logs                Logs                `toml:"logs"`
	Metrics             Metrics             `toml:"metrics"`
	Booking             Booking             `toml:"booking"`
	Events              Events              `toml:"events"`
	GiftCardService     GiftCardService     `toml:"giftcard_service"`
	NotificationService NotificationService `toml:"notification_service"`
	ReminderService     ReminderService     `toml:"reminder_service"`
}

// Server - настройки HTTP-сервера
type Server struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// Database - настройки подключения к PostgreSQL
type Database struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN собирает строку подключения к PostgreSQL
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Logs - настройки логирования
type Logs struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Metrics - настройки экспорта метрик Prometheus
type Metrics struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// Booking - настройки модуля записей
type Booking struct {
	TokenTTLDays int `toml:"token_ttl_days"`
}

// Events - настройки шины доменных событий
type Events struct {
	BufferSize int `toml:"buffer_size"`
}

// GiftCardService - настройки клиента сервиса подарочных карт
type GiftCardService struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// NotificationService - настройки клиента сервиса уведомлений
type NotificationService struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// ReminderService - настройки клиента сервиса напоминаний
type ReminderService struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load читает конфигурацию из TOML-файла и подставляет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load - decode %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config.Load - validate: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}
	if c.Booking.TokenTTLDays == 0 {
		c.Booking.TokenTTLDays = 30
	}
	if c.Events.BufferSize == 0 {
		c.Events.BufferSize = 256
	}
	if c.GiftCardService.Timeout == 0 {
		c.GiftCardService.Timeout = 5
	}
	if c.NotificationService.Timeout == 0 {
		c.NotificationService.Timeout = 5
	}
	if c.ReminderService.Timeout == 0 {
		c.ReminderService.Timeout = 5
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	return nil
}
