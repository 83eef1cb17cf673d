package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Sign in, sign out and show your character",
	}
	cmd.AddCommand(
		newPlayerGuestCmd(),
		newPlayerRegisterCmd(),
		newPlayerLoginCmd(),
		newPlayerMeCmd(),
		newPlayerLogoutCmd(),
	)
	return cmd
}

// signIn posts credentials to path and keeps the resulting session
func signIn(cmd *cobra.Command, path string, body map[string]string) error {
	var result AuthResult
	if err := client.Post(cmd.Context(), path, body, &result); err != nil {
		return err
	}
	if err := cfg.SaveSession(result); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	output(cmd).Print(result)
	return nil
}

func newPlayerGuestCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Start playing as a guest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/v1/players/guest", map[string]string{"display_name": name})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name shown to other players")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, user, pass string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/v1/players/register", map[string]string{
				"display_name": name,
				"username":     user,
				"password":     pass,
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name shown to other players (defaults to the username)")
	cmd.Flags().StringVar(&user, "user", "", "Username")
	cmd.Flags().StringVar(&pass, "pass", "", "Password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	return cmd
}

func newPlayerLoginCmd() *cobra.Command {
	var user, pass string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return signIn(cmd, "/api/v1/players/login", map[string]string{
				"username": user,
				"password": pass,
			})
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "Username")
	cmd.Flags().StringVar(&pass, "pass", "", "Password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show gold, energy and whereabouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			var me Player
			if err := client.Get(cmd.Context(), "/api/v1/players/me", &me); err != nil {
				return err
			}
			output(cmd).Print(me)
			return nil
		},
	}
}

func newPlayerLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget it locally",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Post(cmd.Context(), "/api/v1/players/logout", nil, nil); err != nil {
				return err
			}
			if err := cfg.ClearSession(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newTravelCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "travel <village|barony|kingdom> <id>",
		Short:     "Move to another place in the realm",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"village", "barony", "kingdom"},
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid id %q", args[1])
			}
			var me Player
			if err := client.Post(cmd.Context(), "/api/v1/players/me/travel", map[string]any{"type": args[0], "id": id}, &me); err != nil {
				return err
			}
			output(cmd).Print(me)
			return nil
		},
	}
}
