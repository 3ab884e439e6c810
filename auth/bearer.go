package auth

import (
	"net/http"
	"strings"
)

const bearerPrefix = "Bearer "

// ExtractToken reads the credential supplied when a connection is opened.
// The handshake "token" query parameter wins over the Authorization header,
// matching the order clients set them in.
func ExtractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}
