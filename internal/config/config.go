package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App       App
	JWT       JWT
	AMQP      AMQP
	Telemetry Telemetry
}

type App struct {
	Port        string `env:"PORT" env-default:"8083"`
	Environment string `env:"ENVIRONMENT" env-default:"dev"`
	Debug       bool   `env:"DEBUG" env-default:"false"`
	SeedDemo    bool   `env:"SEED_DEMO" env-default:"false"`
}

type JWT struct {
	Secret string `env:"JWT_SECRET" env-required:"true"`
}

type AMQP struct {
	URL      string `env:"AMQP_URL" env-default:""`
	Exchange string `env:"AMQP_EXCHANGE" env-default:"realtime.events"`
}

type Telemetry struct {
	OTLPEndpoint string `env:"OTLP_ENDPOINT" env-default:""`
}

func Load() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment variables: %w", err)
	}
	return cfg, nil
}
