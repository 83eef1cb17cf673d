package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var tab string
	var kingdom int64

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the houses or wealth leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			if tab != "" {
				q.Set("tab", tab)
			}
			if kingdom > 0 {
				q.Set("kingdom", strconv.FormatInt(kingdom, 10))
			}
			path := "/api/v1/leaderboard"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}
			var result Leaderboard

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "", "Tab: houses, wealth")
	cmd.Flags().Int64Var(&kingdom, "kingdom", 0, "Only houses in this kingdom")
	cmd.AddCommand(newLeaderboardExportCmd())

	return cmd
}

func newLeaderboardExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download both leaderboards as a spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, filename, err := client.Download(cmd.Context(), "/api/v1/leaderboard/export")
			if err != nil {
				return err
			}
			if filename == "" {
				filename = "leaderboard.xlsx"
			}

			path := filepath.Join(dir, filepath.Base(filename))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}

			output(cmd).PrintMessage("Saved " + path)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory to save into")

	return cmd
}
