package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/gabapcia/algowatch/internal/watchlist"

	"github.com/urfave/cli/v3"
)

// listAccountsCommand returns the command that prints the current watchlist,
// one account per block: address, ALGO balance, asset balances, last update
// time and the last refresh error when there is one.
//
// Usage example:
//
//	algowatch list
func listAccountsCommand(store watchlist.Service) *cli.Command {
	return &cli.Command{
		Name:        "list",
		Description: "Print every watched account with its last known state.",
		Usage:       "Shows formatted balances and the last refresh outcome per account.",
		Action: func(ctx context.Context, c *cli.Command) error {
			list, err := store.Load(ctx)
			if err != nil {
				return err
			}

			renderWatchlist(c.Writer, list)
			return nil
		},
	}
}

// renderWatchlist writes a human-readable view of the watchlist.
func renderWatchlist(w io.Writer, list watchlist.Watchlist) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no accounts are being watched")
		return
	}

	for _, account := range list {
		fmt.Fprintln(w, account.Address)

		if account.Snapshot != nil {
			fmt.Fprintf(w, "  balance: %s ALGO (round %d)\n",
				watchlist.FormatBaseAmount(account.Snapshot.Amount),
				account.Snapshot.Round,
			)
			for _, holding := range account.Snapshot.Holdings {
				name := holding.Name
				if name == "" {
					name = fmt.Sprintf("asset %d", holding.ID)
				}
				fmt.Fprintf(w, "  %s: %s %s\n",
					name,
					watchlist.FormatAssetAmount(holding.Amount, holding.Decimals),
					holding.UnitName,
				)
			}
		}

		fmt.Fprintf(w, "  last updated: %s\n", account.LastUpdated.Format("2006-01-02 15:04:05 MST"))
		if account.LastError != "" {
			fmt.Fprintf(w, "  last error: %s\n", account.LastError)
		}
	}
}
