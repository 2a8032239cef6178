package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"stock-move-alerts/internal/crossover"
)

// Status prints the tracker's position report: price versus the moving
// average, the open entry point, and recent trades.
func (a *App) Status(ctx context.Context, opts StatusOptions) error {
	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	tracker := a.newTracker(store)
	if tracker == nil {
		return errors.New("crossover tracking disabled; nothing to report")
	}

	status, err := tracker.CurrentStatus(ctx)
	if errors.Is(err, crossover.ErrInsufficientHistory) {
		fmt.Fprintf(os.Stdout, "%s: indeterminate (%v)\n", tracker.Symbol(), err)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s as of %s\n", tracker.Symbol(), status.At.Format(time.RFC3339))
	fmt.Fprintf(os.Stdout, "  price:    %s\n", formatDecimal(status.Price, 2))
	fmt.Fprintf(os.Stdout, "  sma(%d):  %s\n", tracker.Period(), formatDecimal(status.SMA, 2))
	fmt.Fprintf(os.Stdout, "  position: %s (%s%%)\n", status.Position, formatDecimal(status.DiffPercent, 2))

	if entry, ok, err := tracker.FindEntryPoint(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("entry point lookup failed")
	} else if ok {
		fmt.Fprintf(os.Stdout, "  entered:  %s at %s\n", entry.At.Format("2006-01-02"), formatDecimal(entry.Price, 2))
	}

	if unrealized, ok, err := tracker.UnrealizedReturn(ctx, status.Price); err != nil {
		a.Logger.Warn().Err(err).Msg("unrealized return lookup failed")
	} else if ok {
		fmt.Fprintf(os.Stdout, "  open p/l: %s%%\n", formatDecimal(unrealized, 2))
	}

	if opts.Trades > 0 {
		trades, err := tracker.RecentTrades(ctx, opts.Trades)
		if err != nil {
			a.Logger.Warn().Err(err).Msg("trade listing failed")
			return nil
		}
		if len(trades) > 0 {
			fmt.Fprintln(os.Stdout, "recent trades:")
			for _, t := range trades {
				line := fmt.Sprintf("  %s %-5s %s", t.TradedOn.Format("2006-01-02"), t.Action, formatDecimal(t.Price, 2))
				if t.RealizedPct != nil {
					line += fmt.Sprintf("  (%s%%)", formatDecimal(*t.RealizedPct, 2))
				}
				fmt.Fprintln(os.Stdout, line)
			}
		}
	}

	return nil
}
