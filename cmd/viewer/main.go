package main

import (
	"chat-gateway/internal"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

type Config struct {
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/gateway"`
	DebugPort      int    `env:"DEBUG_PORT,default=8090"`
}

// viewer serves the directory inspector over a read-only copy of the gateway's database.
func main() {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// BypassLockGuard allows opening while the gateway holds the lock
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	stats := func() map[string]any {
		return map[string]any{
			"Status": "Viewer Mode (Read-Only)",
			"Time":   time.Now().Format(time.RFC822),
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/inspect", internal.InspectHandler(db, nil, stats))

	fmt.Printf("Viewer started at http://localhost:%d/inspect\n", config.DebugPort)
	if err := http.ListenAndServe(fmt.Sprintf("localhost:%d", config.DebugPort), mux); err != nil {
		log.Printf("Viewer stopped: %v", err)
	}
}
