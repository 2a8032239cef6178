package cli

import (
	"github.com/spf13/cobra"

	"stock-move-alerts/internal/app"
)

var (
	statusTrades int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the tracked instrument's position against its moving average",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.StatusOptions{
			Trades: statusTrades,
		}

		return getApp().Status(cmd.Context(), opts)
	},
}

func init() {
	statusCmd.Flags().IntVar(&statusTrades, "trades", 5, "Number of recent trades to include (0 to omit)")
}
