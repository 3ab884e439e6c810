package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

// Config points the suites at a running gateway seeded with cmd/seed.
type Config struct {
	GatewayURL string `envconfig:"GATEWAY_URL"`
	HealthAddr string `envconfig:"HEALTH_ADDR"`
	// Seeded accounts
	AliceEmail string `envconfig:"E2E_ALICE_EMAIL" default:"alice@example.com"`
	BobEmail   string `envconfig:"E2E_BOB_EMAIL" default:"bob@example.com"`
	Password   string `envconfig:"E2E_PASSWORD" default:"pw123"`
	// E2E_DEBUG_JSON dumps full gRPC request/response bodies as JSON
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
