// Package gateway exposes the chat gateway over WebSocket and the auth endpoints over HTTP.
package gateway

import (
	"time"

	"golang.org/x/time/rate"
)

// Config tunes one WebSocket connection.
type Config struct {
	AllowedOrigins []string
	SendBuffer     int
	MaxMessageSize int64
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	// Inbound commands per second, with a burst allowance.
	RateLimit rate.Limit
	RateBurst int
}

func DefaultConfig() Config {
	return Config{
		AllowedOrigins: []string{"*"},
		SendBuffer:     256,
		MaxMessageSize: 64 * 1024,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		RateLimit:      rate.Limit(20),
		RateBurst:      40,
	}
}
