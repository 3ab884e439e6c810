package main

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	GatewayURL string `envconfig:"GATEWAY_URL" default:"http://localhost:3000"`
	// TOKEN wins over EMAIL/PASSWORD
	Token    string `envconfig:"TOKEN"`
	Email    string `envconfig:"EMAIL"`
	Password string `envconfig:"PASSWORD"`
	// CHAT_COLOURS enables colorized output
	Colours bool `envconfig:"CHAT_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
