package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fabricctl/internal/core/domain"
)

var gitCmd = &cobra.Command{
	Use:   "git",
	Short: "Connect workspaces to source control",
}

var gitConnectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect a workspace to a git repository",
	RunE:  runGitConnect,
}

var (
	gitWorkspaceID  string
	gitProvider     string
	gitOrganization string
	gitProject      string
	gitRepository   string
	gitBranch       string
	gitDirectory    string
)

func init() {
	gitConnectCmd.Flags().StringVar(&gitWorkspaceID, "workspace", "", "workspace GUID")
	gitConnectCmd.Flags().StringVar(&gitProvider, "provider", "AzureDevOps", "git provider (AzureDevOps or GitHub)")
	gitConnectCmd.Flags().StringVar(&gitOrganization, "organization", "", "organization name")
	gitConnectCmd.Flags().StringVar(&gitProject, "project", "", "project name (Azure DevOps only)")
	gitConnectCmd.Flags().StringVar(&gitRepository, "repository", "", "repository name")
	gitConnectCmd.Flags().StringVar(&gitBranch, "branch", "main", "branch name")
	gitConnectCmd.Flags().StringVar(&gitDirectory, "directory", "/", "directory within the repository")

	gitCmd.AddCommand(gitConnectCmd)
	rootCmd.AddCommand(gitCmd)
}

func runGitConnect(cmd *cobra.Command, _ []string) error {
	if gitWorkspaceID == "" {
		return errors.New("--workspace is required")
	}
	if err := validateGUID("workspace ID", gitWorkspaceID); err != nil {
		return err
	}
	if gitOrganization == "" || gitRepository == "" {
		return errors.New("--organization and --repository are required")
	}

	details := domain.GitProviderDetails{
		GitProviderType:  gitProvider,
		OrganizationName: gitOrganization,
		ProjectName:      gitProject,
		RepositoryName:   gitRepository,
		BranchName:       gitBranch,
		DirectoryName:    gitDirectory,
	}
	if err := fabricClient.ConnectGit(cmd.Context(), gitWorkspaceID, details); err != nil {
		return fmt.Errorf("connect workspace %s to git: %w", gitWorkspaceID, err)
	}

	cmd.Println(successStyle.Render(fmt.Sprintf("Connected workspace to %s/%s (%s).", gitOrganization, gitRepository, gitBranch)))
	return nil
}
