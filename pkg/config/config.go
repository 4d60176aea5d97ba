package config

import (
	"log"
	"os"
	"time"

	"github.com/Yash7028/ECommerce-API/pkg/utils"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTP     `yaml:"http"`
	Postgres PG       `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Stripe   Stripe   `yaml:"stripe"`
	Auth     Auth     `yaml:"auth"`
	Expiry   Expiry   `yaml:"expiry"`
	Delivery Delivery `yaml:"delivery"`
}

type HTTP struct {
	Port    string        `yaml:"port" env:"HTTP_PORT" env-default:":3000"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Stripe struct {
	APIKey   string        `yaml:"api_key" env:"STRIPE_API_KEY"`
	Currency string        `yaml:"currency" env:"STRIPE_CURRENCY" env-default:"brl"`
	Timeout  time.Duration `yaml:"timeout" env-default:"10s"`
}

type Auth struct {
	AccessSecret string `yaml:"access_secret" env:"ACCESS_SECRET"`
}

// Expiry controls the background sweep that cancels orders whose card
// payment was never verified.
type Expiry struct {
	Interval time.Duration `yaml:"interval" env:"EXPIRY_INTERVAL" env-default:"1h"`
	MaxAge   time.Duration `yaml:"max_age" env:"EXPIRY_MAX_AGE" env-default:"2h"`
}

type Delivery struct {
	LeadTime time.Duration `yaml:"lead_time" env-default:"120h"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
