package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabapcia/algowatch/internal/pkg/logger"
	"github.com/gabapcia/algowatch/internal/pkg/x/chflow"
	"github.com/gabapcia/algowatch/internal/refresher"

	"github.com/urfave/cli/v3"
)

// startPipelineCommand returns the command that runs the refresh pipeline:
// the orchestrator polls every watched account on its interval, commits the
// reconciled watchlist and publishes each result, until the process receives
// an interrupt (SIGINT or SIGTERM).
//
// Usage example:
//
//	algowatch start
func startPipelineCommand(rf refresher.Service) *cli.Command {
	return &cli.Command{
		Name:        "start",
		Description: "Starts the periodic account refresh pipeline.",
		Usage:       "Runs the refresh loop in the foreground. Terminates gracefully on Ctrl+C or termination signals.",
		Action: func(ctx context.Context, c *cli.Command) error {
			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			ctx, cancel := context.WithCancel(ctx)
			defer cancel()

			watchlistCh, err := rf.Start(ctx)
			if err != nil {
				return err
			}
			defer rf.Close()

			// Consume published watchlists like any other subscriber would.
			go func() {
				for {
					list, ok := chflow.Receive(ctx, watchlistCh)
					if !ok {
						return
					}
					logger.Info(ctx, "watchlist refreshed", "accounts", len(list))
				}
			}()

			<-quit
			return nil
		},
	}
}
