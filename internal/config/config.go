package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	LogDir      string `yaml:"log_dir" env:"LOG_DIR" env-default:"./logs"`
	HTTPServer  `yaml:"http_server"`
	Cache       CacheConfig     `yaml:"cache"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Export      ExportConfig    `yaml:"export"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type CacheConfig struct {
	ShiftTTL time.Duration `yaml:"shift_ttl" env-default:"10m"`
	StaffTTL time.Duration `yaml:"staff_ttl" env-default:"5m"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests" env-default:"100"`
	Window   time.Duration `yaml:"window" env-default:"1m"`
}

type ExportConfig struct {
	Title    string `yaml:"title" env-default:"シフト表"`
	FontPath string `yaml:"font_path" env-default:""`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}
