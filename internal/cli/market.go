package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newMarketCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "market <kingdom-id>",
		Short: "Show a kingdom market",
		Long: `Show a kingdom market. Standing elsewhere or visiting in a closed season
is not an error; the output says which applies.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid kingdom id %q", args[0])
			}
			var result Market

			if err := client.Get(cmd.Context(), fmt.Sprintf("/api/v1/kingdoms/%d/market", id), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
