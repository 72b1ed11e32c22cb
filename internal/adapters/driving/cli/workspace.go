package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage Fabric workspaces",
}

var workspaceCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a workspace",
	Long: `Create a workspace, optionally assigning it to a capacity and
provisioning a managed identity in the same run.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkspaceCreate,
}

var workspaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces",
	RunE:  runWorkspaceList,
}

var workspaceProvisionIdentityCmd = &cobra.Command{
	Use:   "provision-identity",
	Short: "Provision a managed identity for a workspace",
	RunE:  runWorkspaceProvisionIdentity,
}

var workspaceAssignCapacityCmd = &cobra.Command{
	Use:   "assign-capacity",
	Short: "Assign a workspace to a capacity",
	RunE:  runWorkspaceAssignCapacity,
}

var (
	workspaceCapacityID        string
	workspaceProvisionOnCreate bool
	workspaceID                string
)

func init() {
	workspaceCreateCmd.Flags().StringVar(&workspaceCapacityID, "capacity-id", "", "capacity GUID to assign the workspace to")
	workspaceCreateCmd.Flags().BoolVar(&workspaceProvisionOnCreate, "provision-identity", false, "provision a managed identity after creation")
	workspaceProvisionIdentityCmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace GUID")
	workspaceAssignCapacityCmd.Flags().StringVar(&workspaceID, "workspace", "", "workspace GUID")
	workspaceAssignCapacityCmd.Flags().StringVar(&workspaceCapacityID, "capacity-id", "", "capacity GUID")

	workspaceCmd.AddCommand(workspaceCreateCmd)
	workspaceCmd.AddCommand(workspaceListCmd)
	workspaceCmd.AddCommand(workspaceProvisionIdentityCmd)
	workspaceCmd.AddCommand(workspaceAssignCapacityCmd)
	rootCmd.AddCommand(workspaceCmd)
}

func runWorkspaceCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	if workspaceCapacityID != "" {
		if err := validateGUID("capacity ID", workspaceCapacityID); err != nil {
			return err
		}
	}

	id, err := fabricClient.CreateWorkspace(cmd.Context(), name, workspaceCapacityID)
	if err != nil {
		return fmt.Errorf("create workspace %q: %w", name, err)
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Created workspace %q (%s).", name, id)))

	if workspaceProvisionOnCreate {
		if err := fabricClient.ProvisionIdentity(cmd.Context(), id); err != nil {
			return fmt.Errorf("provision identity for workspace %s: %w", id, err)
		}
		cmd.Println(successStyle.Render("Provisioned workspace identity."))
	}
	return nil
}

func runWorkspaceList(cmd *cobra.Command, _ []string) error {
	workspaces, err := fabricClient.ListWorkspaces(cmd.Context())
	if err != nil {
		return fmt.Errorf("list workspaces: %w", err)
	}
	if len(workspaces) == 0 {
		cmd.Println("No workspaces found.")
		return nil
	}

	rows := make([][]string, 0, len(workspaces))
	for _, ws := range workspaces {
		rows = append(rows, []string{ws.ID, ws.DisplayName, ws.CapacityID})
	}
	printTable(cmd, []string{"ID", "NAME", "CAPACITY"}, rows)
	return nil
}

func runWorkspaceProvisionIdentity(cmd *cobra.Command, _ []string) error {
	if workspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := validateGUID("workspace ID", workspaceID); err != nil {
		return err
	}

	if err := fabricClient.ProvisionIdentity(cmd.Context(), workspaceID); err != nil {
		return fmt.Errorf("provision identity for workspace %s: %w", workspaceID, err)
	}
	cmd.Println(successStyle.Render("Provisioned workspace identity."))
	return nil
}

func runWorkspaceAssignCapacity(cmd *cobra.Command, _ []string) error {
	if workspaceID == "" || workspaceCapacityID == "" {
		return errors.New("--workspace and --capacity-id are required")
	}
	if err := validateGUID("workspace ID", workspaceID); err != nil {
		return err
	}
	if err := validateGUID("capacity ID", workspaceCapacityID); err != nil {
		return err
	}

	if err := fabricClient.AssignToCapacity(cmd.Context(), workspaceID, workspaceCapacityID); err != nil {
		return fmt.Errorf("assign workspace %s to capacity: %w", workspaceID, err)
	}
	cmd.Println(successStyle.Render("Assigned workspace to capacity."))
	return nil
}
