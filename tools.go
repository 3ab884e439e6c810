//go:build tools
// +build tools

// Package tools pins the code generators used by `go generate` (mockgen) in go.mod.
package chat_gateway

import (
	_ "go.uber.org/mock/mockgen"
)
