package main

import "time"

type Config struct {
	LogLevel string `env:"LOG_LEVEL,default=INFO"`
	Host     string `env:"HOST,default=localhost"`
	Port     int    `env:"PORT,default=3000"`
	// gRPC health service, disabled when 0
	HealthPort int `env:"HEALTH_PORT,default=0"`

	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`

	// "badger" or "postgres"
	StoreDriver    string `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/gateway"`
	DatabaseURL    string `env:"DATABASE_URL"`

	AllowedOrigins  string        `env:"ALLOWED_ORIGINS,default=*"`
	SendBufferSize  int           `env:"SEND_BUFFER_SIZE,default=256"`
	MaxMessageSize  int           `env:"MAX_MESSAGE_SIZE,default=65536"`
	RateLimit       float64       `env:"RATE_LIMIT_PER_SECOND,default=20"`
	RateBurst       int           `env:"RATE_LIMIT_BURST,default=40"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=1s"`
	MetricInterval  time.Duration `env:"METRIC_INTERVAL,default=30s"`
	ContentFilter   bool          `env:"CONTENT_FILTER_ENABLED,default=false"`
	CensorCharacter string        `env:"CENSOR_CHARACTER,default=*"`
	DebugInspect    bool          `env:"DEBUG_INSPECT_ENABLED,default=false"`
}
