package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var warehouseCmd = &cobra.Command{
	Use:   "warehouse",
	Short: "Manage warehouse items",
}

var warehouseCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a warehouse in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runWarehouseCreate,
}

var warehouseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List warehouses in a workspace",
	RunE:  runWarehouseList,
}

var warehouseWorkspaceID string

func init() {
	warehouseCreateCmd.Flags().StringVar(&warehouseWorkspaceID, "workspace", "", "workspace GUID")
	warehouseListCmd.Flags().StringVar(&warehouseWorkspaceID, "workspace", "", "workspace GUID")

	warehouseCmd.AddCommand(warehouseCreateCmd)
	warehouseCmd.AddCommand(warehouseListCmd)
	rootCmd.AddCommand(warehouseCmd)
}

func runWarehouseCreate(cmd *cobra.Command, args []string) error {
	if warehouseWorkspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := validateGUID("workspace ID", warehouseWorkspaceID); err != nil {
		return err
	}

	id, err := fabricClient.CreateWarehouse(cmd.Context(), warehouseWorkspaceID, args[0])
	if err != nil {
		return fmt.Errorf("create warehouse %q: %w", args[0], err)
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Created warehouse %q (%s).", args[0], id)))
	return nil
}

func runWarehouseList(cmd *cobra.Command, _ []string) error {
	if warehouseWorkspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := validateGUID("workspace ID", warehouseWorkspaceID); err != nil {
		return err
	}

	warehouses, err := fabricClient.ListWarehouses(cmd.Context(), warehouseWorkspaceID)
	if err != nil {
		return fmt.Errorf("list warehouses: %w", err)
	}
	if len(warehouses) == 0 {
		cmd.Println("No warehouses found.")
		return nil
	}

	rows := make([][]string, 0, len(warehouses))
	for _, wh := range warehouses {
		rows = append(rows, []string{wh.ID, wh.DisplayName})
	}
	printTable(cmd, []string{"ID", "NAME"}, rows)
	return nil
}
