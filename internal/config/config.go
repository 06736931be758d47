package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN           string `mapstructure:"DB_DSN"`
	Environment     string `mapstructure:"ENV"`
	HTTPAddr        string `mapstructure:"HTTP_ADDR"`
	AMQPURL         string `mapstructure:"AMQP_URL"`
	NotifyExchange  string `mapstructure:"NOTIFY_EXCHANGE"`
	SlotStepMinutes int    `mapstructure:"SLOT_STEP_MINUTES"`
	MigrationsPath  string `mapstructure:"MIGRATIONS_PATH"`
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	// Читаем напрямую из переменных окружения (после godotenv.Load они там)
	cfg := &Config{
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		HTTPAddr:       os.Getenv("HTTP_ADDR"),
		AMQPURL:        os.Getenv("AMQP_URL"),
		NotifyExchange: os.Getenv("NOTIFY_EXCHANGE"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),
	}

	// Устанавливаем дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.NotifyExchange == "" {
		cfg.NotifyExchange = "appointments"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if raw := os.Getenv("SLOT_STEP_MINUTES"); raw != "" {
		step, err := strconv.Atoi(raw)
		if err != nil || step <= 0 {
			return nil, fmt.Errorf("SLOT_STEP_MINUTES must be a positive number, got %q", raw)
		}
		cfg.SlotStepMinutes = step
	} else {
		cfg.SlotStepMinutes = 15
	}

	// Проверяем обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	log.Printf("Config loaded\n")

	return cfg, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}
