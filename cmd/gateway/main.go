package main

import (
	"chat-gateway/auth"
	"chat-gateway/gateway"
	"chat-gateway/internal"
	"chat-gateway/moderation"
	"chat-gateway/observability"
	"chat-gateway/repositories"
	"chat-gateway/repositories/postgres"
	"chat-gateway/runtime"
	"chat-gateway/runtime/workers"
	"chat-gateway/services"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/time/rate"
)

// Exit codes for the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Gateway terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run owns every resource so deferred cleanups execute before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Directory store
	var (
		store repositories.IDirectoryStore
		db    *badger.DB
	)
	switch config.StoreDriver {
	case "badger":
		var err error
		db, err = badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		store = repositories.NewBadgerStore(db, log)
	case "postgres":
		if config.DatabaseURL == "" {
			return exitConfig, fmt.Errorf("config error: DATABASE_URL is required with STORE_DRIVER=postgres")
		}
		pg, err := postgres.NewStore(ctx, config.DatabaseURL)
		if err != nil {
			return exitRuntime, err
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			return exitRuntime, err
		}
		store = pg
	default:
		return exitConfig, fmt.Errorf("config error: unknown STORE_DRIVER %q", config.StoreDriver)
	}

	// 3. Gateway core and transport
	gw := runtime.NewGateway(log, auth.NewJWTVerifier(config.JWTSecret), store)

	filter, err := contentFilter(config, log)
	if err != nil {
		return exitConfig, err
	}
	wsConfig := gateway.DefaultConfig()
	wsConfig.AllowedOrigins = internal.SplitList(config.AllowedOrigins)
	wsConfig.SendBuffer = config.SendBufferSize
	wsConfig.MaxMessageSize = int64(config.MaxMessageSize)
	wsConfig.RateLimit = rate.Limit(config.RateLimit)
	wsConfig.RateBurst = config.RateBurst
	wsServer := gateway.NewServer(log, gw, wsConfig, filter)

	authService := services.NewAuthService(store, config.JWTSecret, config.AuthTokenDuration)
	router := gateway.NewRouter(log, wsServer, authService, gw)
	if config.DebugInspect && db != nil {
		router.GET("/debug/inspect", gin.WrapH(internal.InspectHandler(db, nil, func() map[string]any {
			stats := gw.Stats()
			return map[string]any{
				"Connections": stats.Connections,
				"Online":      stats.OnlineUsers,
				"Rooms":       stats.ActiveRooms,
			}
		})))
		log.Warn("Directory inspector exposed", "path", "/debug/inspect")
	}

	// 4. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(
		workers.NewHTTPServerWorker(log, fmt.Sprintf("%s:%d", config.Host, config.Port), router,
			config.ShutdownTimeout, wsServer.CloseAll),
		workers.NewMonitoringWorker(log, gw, observability.NewMonitoringManager(), config.MetricInterval),
	)
	if config.HealthPort != 0 {
		sup.Add(workers.NewHealthWorker(log, fmt.Sprintf("%s:%d", config.Host, config.HealthPort)))
	}

	log.Info("Gateway starting", "store", config.StoreDriver, "port", config.Port, "content_filter", filter != nil)
	sup.Run(ctx)
	log.Info("Program stopped cleanly")
	return exitOK, nil
}

// contentFilter returns nil when filtering is disabled, so the transport skips it entirely.
func contentFilter(config Config, log *slog.Logger) (gateway.ContentFilter, error) {
	if !config.ContentFilter {
		return nil, nil
	}
	char, err := internal.CharacterRune(config.CensorCharacter)
	if err != nil {
		return nil, err
	}
	dictionary, err := moderation.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("censored words: %w", err)
	}
	moderator, err := moderation.NewModerator(dictionary.Words, char, log)
	if err != nil {
		return nil, err
	}
	log.Info("Content filter enabled", "words", len(dictionary.Words), "languages", dictionary.Languages)
	return moderator, nil
}
