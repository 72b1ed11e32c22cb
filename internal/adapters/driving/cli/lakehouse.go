package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var lakehouseCmd = &cobra.Command{
	Use:   "lakehouse",
	Short: "Manage lakehouse items",
}

var lakehouseCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a lakehouse in a workspace",
	Args:  cobra.ExactArgs(1),
	RunE:  runLakehouseCreate,
}

var lakehouseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List lakehouses in a workspace",
	RunE:  runLakehouseList,
}

var (
	lakehouseWorkspaceID string
	lakehouseDescription string
)

func init() {
	lakehouseCreateCmd.Flags().StringVar(&lakehouseWorkspaceID, "workspace", "", "workspace GUID")
	lakehouseCreateCmd.Flags().StringVar(&lakehouseDescription, "description", "", "item description")
	lakehouseListCmd.Flags().StringVar(&lakehouseWorkspaceID, "workspace", "", "workspace GUID")

	lakehouseCmd.AddCommand(lakehouseCreateCmd)
	lakehouseCmd.AddCommand(lakehouseListCmd)
	rootCmd.AddCommand(lakehouseCmd)
}

func runLakehouseCreate(cmd *cobra.Command, args []string) error {
	if lakehouseWorkspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := validateGUID("workspace ID", lakehouseWorkspaceID); err != nil {
		return err
	}

	id, err := fabricClient.CreateLakehouse(cmd.Context(), lakehouseWorkspaceID, args[0], lakehouseDescription)
	if err != nil {
		return fmt.Errorf("create lakehouse %q: %w", args[0], err)
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Created lakehouse %q (%s).", args[0], id)))
	return nil
}

func runLakehouseList(cmd *cobra.Command, _ []string) error {
	if lakehouseWorkspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := validateGUID("workspace ID", lakehouseWorkspaceID); err != nil {
		return err
	}

	lakehouses, err := fabricClient.ListLakehouses(cmd.Context(), lakehouseWorkspaceID)
	if err != nil {
		return fmt.Errorf("list lakehouses: %w", err)
	}
	if len(lakehouses) == 0 {
		cmd.Println("No lakehouses found.")
		return nil
	}

	rows := make([][]string, 0, len(lakehouses))
	for _, lh := range lakehouses {
		rows = append(rows, []string{lh.ID, lh.DisplayName, lh.Description})
	}
	printTable(cmd, []string{"ID", "NAME", "DESCRIPTION"}, rows)
	return nil
}
