package main

import (
	"chat-gateway/repositories"
	"chat-gateway/repositories/postgres"
	"chat-gateway/services"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

type Config struct {
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	StoreDriver       string        `env:"STORE_DRIVER,default=badger"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=./data/gateway"`
	DatabaseURL       string        `env:"DATABASE_URL"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	ctx := context.Background()

	var store repositories.IDirectoryStore
	switch config.StoreDriver {
	case "postgres":
		pg, err := postgres.NewStore(ctx, config.DatabaseURL)
		if err != nil {
			return err
		}
		defer pg.Close()
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
		store = pg
	default:
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLogger(nil))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		defer db.Close()
		store = repositories.NewBadgerStore(db, logs.GetLoggerFromString("INFO"))
	}

	res, err := services.Seed(ctx, store, config.JWTSecret, config.AuthTokenDuration)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"User", "Email", "ID", "Token"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, u := range res.Users {
		table.Append([]string{u.User.Name, u.User.Email, string(u.User.ID), u.Token.String()})
	}
	table.Render()

	fmt.Printf("\nRoom %q (%s) with %d messages. Password for both users: %s\n",
		res.Room.Name, res.Room.ID, len(res.Messages), services.SeedPassword)
	return nil
}
