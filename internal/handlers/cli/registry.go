package cli

import (
	"context"
	"fmt"

	"github.com/gabapcia/algowatch/internal/watchlist"

	"github.com/urfave/cli/v3"
)

// watchAccountCommand returns the command that adds an account address to
// the watchlist. The add fetches the account's initial snapshot, so the
// entry starts out populated.
//
// Usage example:
//
//	algowatch watch --address UOAN7V...
func watchAccountCommand(store watchlist.Service) *cli.Command {
	return &cli.Command{
		Name:        "watch",
		Description: "Add an Algorand account address to the watchlist.",
		Usage:       "Validates the address, fetches its current state and starts watching it.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Account address to start watching (58 characters, A-Z and 2-7)",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			address := c.String("address")

			list, err := store.Add(ctx, address)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "watching %s (%d accounts total)\n", watchlist.ShortAddress(address), len(list))
			return nil
		},
	}
}

// unwatchAccountCommand returns the command that removes an account address
// from the watchlist. Removing an address that is not watched is a no-op.
//
// Usage example:
//
//	algowatch unwatch --address UOAN7V...
func unwatchAccountCommand(store watchlist.Service) *cli.Command {
	return &cli.Command{
		Name:        "unwatch",
		Description: "Remove an Algorand account address from the watchlist.",
		Usage:       "Stops watching the given address. Unknown addresses are ignored.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Account address to stop watching",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			address := c.String("address")

			list, err := store.Remove(ctx, address)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Writer, "no longer watching %s (%d accounts total)\n", watchlist.ShortAddress(address), len(list))
			return nil
		},
	}
}
