package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newHouseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "house",
		Short: "House building commands",
	}

	cmd.AddCommand(newHouseListCmd())
	cmd.AddCommand(newHouseGetCmd())
	cmd.AddCommand(newHouseCreateCmd())
	cmd.AddCommand(newHouseAddRoomCmd())
	cmd.AddCommand(newHousePlaceCmd())
	cmd.AddCommand(newHouseRemoveCmd())
	cmd.AddCommand(newHouseCatalogCmd())

	return cmd
}

func newHouseListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your houses",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Houses

			if err := client.Get(cmd.Context(), "/api/v1/houses", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newHouseGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <house-id>",
		Short: "Show a house with its rooms and furniture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result House

			if err := client.Get(cmd.Context(), "/api/v1/houses/"+url.PathEscape(args[0]), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newHouseCreateCmd() *cobra.Command {
	var name, tier string
	var kingdom int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Build a new house",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": name, "tier": tier, "kingdom_id": kingdom}
			var result House

			if err := client.Post(cmd.Context(), "/api/v1/houses", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "House name (required)")
	cmd.Flags().StringVar(&tier, "tier", "cottage", "Tier: cottage, house, manor, estate")
	cmd.Flags().Int64Var(&kingdom, "kingdom", 0, "Kingdom ID (required)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("kingdom")

	return cmd
}

func newHouseAddRoomCmd() *cobra.Command {
	var roomType string
	var x, y int

	cmd := &cobra.Command{
		Use:   "add-room <house-id>",
		Short: "Add a room on a free grid cell",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"type": roomType, "x": x, "y": y}
			var result Room

			if err := client.Post(cmd.Context(), "/api/v1/houses/"+url.PathEscape(args[0])+"/rooms", req, &result); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Added %s %s at %d,%d", result.Type, result.ID, result.X, result.Y))
			return nil
		},
	}

	cmd.Flags().StringVar(&roomType, "type", "", "Room type (required)")
	cmd.Flags().IntVar(&x, "x", 0, "Grid column")
	cmd.Flags().IntVar(&y, "y", 0, "Grid row")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newHousePlaceCmd() *cobra.Command {
	var key, hotspot string

	cmd := &cobra.Command{
		Use:   "place <house-id> <room-id>",
		Short: "Place furniture on a room hotspot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"key": key, "hotspot": hotspot}
			var result Furniture

			path := fmt.Sprintf("/api/v1/houses/%s/rooms/%s/furniture", url.PathEscape(args[0]), url.PathEscape(args[1]))
			if err := client.Post(cmd.Context(), path, req, &result); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Placed %s on %s (%s)", result.Key, result.Hotspot, result.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "Catalog key (required)")
	cmd.Flags().StringVar(&hotspot, "hotspot", "", "Hotspot (defaults to the item's own)")
	_ = cmd.MarkFlagRequired("key")

	return cmd
}

func newHouseRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <house-id> <furniture-id>",
		Short: "Remove placed furniture",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/houses/%s/furniture/%s", url.PathEscape(args[0]), url.PathEscape(args[1]))
			if err := client.Delete(cmd.Context(), path); err != nil {
				return err
			}

			output(cmd).PrintMessage("Furniture removed")
			return nil
		},
	}
}

func newHouseCatalogCmd() *cobra.Command {
	var hotspot string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the furniture catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/catalog/furniture"
			if hotspot != "" {
				path += "?hotspot=" + url.QueryEscape(hotspot)
			}
			var result Catalog

			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&hotspot, "hotspot", "", "Only items for this hotspot")

	return cmd
}
