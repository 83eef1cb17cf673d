package cli

import (
	"github.com/spf13/cobra"
)

func newEnergyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Show energy and the regen breakdown",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Energy

			if err := client.Get(cmd.Context(), "/api/v1/energy", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "regen",
		Short: "Apply one regen tick",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RegenResult

			if err := client.Post(cmd.Context(), "/api/v1/energy/regen", nil, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	})

	return cmd
}
