package gateway

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestOriginPolicy(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "no origin header", allowed: []string{"https://a.example.com"}, origin: "", want: true},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://anything.example.com", want: true},
		{name: "exact match", allowed: []string{"https://a.example.com"}, origin: "https://a.example.com", want: true},
		{name: "case insensitive", allowed: []string{"HTTPS://A.example.com"}, origin: "https://a.EXAMPLE.com", want: true},
		{name: "port matters", allowed: []string{"https://a.example.com"}, origin: "https://a.example.com:8443", want: false},
		{name: "other host", allowed: []string{"https://a.example.com"}, origin: "https://b.example.com", want: false},
		{name: "malformed origin", allowed: []string{"https://a.example.com"}, origin: "::bad", want: false},
		{name: "invalid entries ignored", allowed: []string{"a.example.com", " "}, origin: "https://a.example.com", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := newOriginPolicy(tt.allowed, log)
			r := httptest.NewRequest("GET", "/chat", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			require.Equal(t, tt.want, policy.check(r))
		})
	}
}
