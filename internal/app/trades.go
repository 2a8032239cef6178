package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

// Trades prints the trade journal, newest first.
func (a *App) Trades(ctx context.Context, opts TradesOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.New("database not configured; cannot list trades")
	}
	if closeStore != nil {
		defer closeStore()
	}

	trades, err := store.ListRecentTrades(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(trades) == 0 {
		fmt.Fprintln(os.Stdout, "no trades recorded")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "Date\tAction\tPrice\tRealized%")

	for _, trade := range trades {
		realized := ""
		if trade.RealizedPct != nil {
			realized = formatDecimal(*trade.RealizedPct, 2)
		}
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\n",
			trade.TradedOn.UTC().Format(time.DateOnly),
			trade.Action,
			formatDecimal(trade.Price, 2),
			realized,
		)
	}

	writer.Flush()
	return nil
}

func formatDecimal(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}
