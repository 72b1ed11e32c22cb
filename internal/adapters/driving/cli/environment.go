package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var environmentCmd = &cobra.Command{
	Use:   "environment",
	Short: "Manage Spark environments",
}

var environmentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List environments in a workspace",
	RunE:  runEnvironmentList,
}

var environmentPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the staged state of an environment",
	RunE:  runEnvironmentPublish,
}

var environmentUploadLibraryCmd = &cobra.Command{
	Use:   "upload-library",
	Short: "Upload a staging library and publish the environment",
	Long: `Upload a library file (.whl, .jar, .py) to an environment's staging
area and publish. The environment is addressed by display name; version
numbers are stripped from the uploaded filename so re-uploads of a new
release replace the prior one.`,
	RunE: runEnvironmentUploadLibrary,
}

var (
	environmentWorkspaceID string
	environmentID          string
	environmentName        string
	environmentLibraryPath string
)

func init() {
	environmentListCmd.Flags().StringVar(&environmentWorkspaceID, "workspace", "", "workspace GUID")
	environmentPublishCmd.Flags().StringVar(&environmentWorkspaceID, "workspace", "", "workspace GUID")
	environmentPublishCmd.Flags().StringVar(&environmentID, "environment", "", "environment GUID")
	environmentUploadLibraryCmd.Flags().StringVar(&environmentWorkspaceID, "workspace", "", "workspace GUID")
	environmentUploadLibraryCmd.Flags().StringVar(&environmentName, "environment", "", "environment display name")
	environmentUploadLibraryCmd.Flags().StringVar(&environmentLibraryPath, "file", "", "path to the library file")

	environmentCmd.AddCommand(environmentListCmd)
	environmentCmd.AddCommand(environmentPublishCmd)
	environmentCmd.AddCommand(environmentUploadLibraryCmd)
	rootCmd.AddCommand(environmentCmd)
}

func runEnvironmentList(cmd *cobra.Command, _ []string) error {
	if environmentWorkspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := validateGUID("workspace ID", environmentWorkspaceID); err != nil {
		return err
	}

	environments, err := fabricClient.ListEnvironments(cmd.Context(), environmentWorkspaceID)
	if err != nil {
		return fmt.Errorf("list environments: %w", err)
	}
	if len(environments) == 0 {
		cmd.Println("No environments found.")
		return nil
	}

	rows := make([][]string, 0, len(environments))
	for _, env := range environments {
		rows = append(rows, []string{env.ID, env.DisplayName})
	}
	printTable(cmd, []string{"ID", "NAME"}, rows)
	return nil
}

func runEnvironmentPublish(cmd *cobra.Command, _ []string) error {
	if environmentWorkspaceID == "" || environmentID == "" {
		return errors.New("--workspace and --environment are required")
	}
	if err := validateGUID("workspace ID", environmentWorkspaceID); err != nil {
		return err
	}
	if err := validateGUID("environment ID", environmentID); err != nil {
		return err
	}

	if err := fabricClient.PublishEnvironment(cmd.Context(), environmentWorkspaceID, environmentID); err != nil {
		return fmt.Errorf("publish environment %s: %w", environmentID, err)
	}
	cmd.Println(successStyle.Render("Publish started."))
	return nil
}

func runEnvironmentUploadLibrary(cmd *cobra.Command, _ []string) error {
	if environmentWorkspaceID == "" || environmentName == "" || environmentLibraryPath == "" {
		return errors.New("--workspace, --environment, and --file are required")
	}
	if err := validateGUID("workspace ID", environmentWorkspaceID); err != nil {
		return err
	}

	err := fabricClient.UploadStagingLibrary(cmd.Context(), environmentWorkspaceID, environmentName, environmentLibraryPath)
	if err != nil {
		return fmt.Errorf("upload library to environment %q: %w", environmentName, err)
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Uploaded %s and published environment %q.", environmentLibraryPath, environmentName)))
	return nil
}
