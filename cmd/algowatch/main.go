package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gabapcia/algowatch/internal/handlers/cli"
	"github.com/gabapcia/algowatch/internal/infra/blockchain/algonode"
	"github.com/gabapcia/algowatch/internal/infra/notification"
	redisstorage "github.com/gabapcia/algowatch/internal/infra/storage/redis"
	sqlitestorage "github.com/gabapcia/algowatch/internal/infra/storage/sqlite"
	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/algowatch/internal/pkg/telemetry"
	"github.com/gabapcia/algowatch/internal/pkg/validator"
	"github.com/gabapcia/algowatch/internal/refresher"
	"github.com/gabapcia/algowatch/internal/watchlist"

	"github.com/kelseyhightower/envconfig"
)

// blobStorageCloser is satisfied by every storage client we construct.
type blobStorageCloser interface {
	watchlist.BlobStorage
	io.Closer
}

// newBlobStorage builds the persistence backend selected by configuration.
func newBlobStorage(ctx context.Context, cfg config) (blobStorageCloser, error) {
	switch cfg.StorageBackend {
	case "redis":
		c, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := sqlitestorage.NewClient(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := envconfig.Process("algowatch", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "loading configuration:", err)
		os.Exit(1)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "initializing telemetry:", err)
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "initializing logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := validator.Validate(cfg); err != nil {
		logger.Fatal(ctx, "invalid configuration", "error", err)
	}

	blobStorage, err := newBlobStorage(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "initializing watchlist storage",
			"storage.backend", cfg.StorageBackend,
			"error", err,
		)
	}
	defer blobStorage.Close()

	chain := algonode.New(
		algonode.WithBaseURL(cfg.NodeURL),
		algonode.WithTimeout(cfg.HTTPTimeout),
		algonode.WithRetryMax(cfg.FetchRetryMax),
		algonode.WithRetryBase(cfg.FetchRetryBase),
	)

	events := notification.New()

	store := watchlist.New(blobStorage, chain, watchlist.WithNotifier(events))

	rf := refresher.New(store, chain,
		refresher.WithInterval(cfg.RefreshInterval),
		refresher.WithNotifier(events),
		refresher.WithCommitRetry(retry.New(
			retry.WithAttempts(3),
			retry.WithDelay(500*time.Millisecond),
		)),
	)

	if err := cli.Run(ctx, store, rf); err != nil {
		logger.Fatal(ctx, "algowatch terminated with an error", "error", err)
	}
}
