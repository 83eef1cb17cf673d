package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd builds the myrefell command tree
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	root := &cobra.Command{
		Use:   "myrefell",
		Short: "Play Myrefell from the terminal",
		Long: `myrefell talks to a Myrefell server's JSON API.

Sign in with "player guest", "player register" or "player login"; the
session is kept in a small YAML file and reused by every other command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := cfg.LoadSession(); err != nil {
				return err
			}
			client = NewClient(cfg.ServerURL, cfg.Token, cfg.Timeout)
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: MYREFELL_SERVER)")
	flags.StringVar(&cfg.Token, "token", cfg.Token, "Session token, overrides the session file (env: MYREFELL_TOKEN)")
	flags.StringVar(&cfg.SessionFile, "session-file", cfg.SessionFile, "Where the session is kept (env: MYREFELL_SESSION_FILE)")
	flags.StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	flags.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout")

	root.AddCommand(
		newPlayerCmd(),
		newTravelCmd(),
		newEnergyCmd(),
		newHouseCmd(),
		newMarketCmd(),
		newLeaderboardCmd(),
		newWorldCmd(),
		newHealthCmd(),
	)
	return root
}

// Execute runs the CLI and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func output(cmd *cobra.Command) *Output {
	return NewOutput(cfg.Output, cmd.OutOrStdout())
}
