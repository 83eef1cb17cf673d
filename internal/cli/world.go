package cli

import (
	"github.com/spf13/cobra"
)

func newWorldCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "world",
		Short: "Show the game calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result World

			if err := client.Get(cmd.Context(), "/api/v1/world", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "kingdoms",
		Short: "List the kingdoms of the realm",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Kingdoms

			if err := client.Get(cmd.Context(), "/api/v1/kingdoms", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
