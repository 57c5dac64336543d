// Package cli is the command-line surface of algowatch. It exposes the
// watchlist operations (watch, unwatch, list) and the long-running refresh
// pipeline (start).
package cli

import (
	"context"
	"os"

	"github.com/gabapcia/algowatch/internal/refresher"
	"github.com/gabapcia/algowatch/internal/watchlist"

	"github.com/urfave/cli/v3"
)

// Run builds and executes the algowatch CLI application.
//
// Commands:
//
//   - `start`:   runs the periodic refresh pipeline until interrupted.
//   - `watch`:   adds an account address to the watchlist.
//   - `unwatch`: removes an account address from the watchlist.
//   - `list`:    prints the watchlist with formatted balances.
func Run(ctx context.Context, store watchlist.Service, rf refresher.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "algowatch",
		Description:           "Watches Algorand accounts and reports balance and asset changes.",
		Usage:                 "algowatch [command] [flags]",
		Commands: []*cli.Command{
			startPipelineCommand(rf),
			watchAccountCommand(store),
			unwatchAccountCommand(store),
			listAccountsCommand(store),
		},
	}

	return app.Run(ctx, os.Args)
}
