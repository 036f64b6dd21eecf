// gauthctl is the out-of-band administrative tool. API key bindings are only
// ever created here; there is no network endpoint for key issuance, and the
// raw key is printed exactly once.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/crustymonkey/gauth-server/internal/auth"
	"github.com/crustymonkey/gauth-server/internal/config"
	"github.com/crustymonkey/gauth-server/internal/database"
	"github.com/crustymonkey/gauth-server/internal/storage"
	"github.com/crustymonkey/gauth-server/internal/storage/postgres"
)

func main() {
	if os.Getenv("ENV") != "production" {
		_ = config.LoadDotEnvIfPresent(".env")
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	dbURL, err := cfg.PostgresURL()
	if err != nil {
		fmt.Fprintf(os.Stderr, "db url error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, err := database.OpenPostgres(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "db connection error: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	store := postgres.New(conn.DB())

	switch os.Args[1] {
	case "apikey":
		if len(os.Args) < 3 {
			usage()
			os.Exit(2)
		}
		switch os.Args[2] {
		case "create":
			if len(os.Args) < 4 {
				usage()
				os.Exit(2)
			}
			createAPIKey(ctx, store, os.Args[3])
		default:
			usage()
			os.Exit(2)
		}
	default:
		usage()
		os.Exit(2)
	}
}

func createAPIKey(ctx context.Context, store storage.APIKeysStore, host string) {
	host = strings.TrimSpace(host)
	if host == "" {
		fmt.Fprintln(os.Stderr, "host must not be empty")
		os.Exit(1)
	}

	key, err := auth.GenerateAPIKey()
	if err != nil {
		fmt.Fprintf(os.Stderr, "generate api key: %v\n", err)
		os.Exit(1)
	}

	if err := store.Insert(ctx, storage.APIKeyBinding{
		Host:   host,
		APIKey: key,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "insert api key: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("New API key for %s: %s\n", host, key)
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  gauthctl apikey create <host>")
}
