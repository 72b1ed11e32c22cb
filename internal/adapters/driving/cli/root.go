// Package cli wires the cobra command tree for fabricctl. Commands talk
// to the core through the driving ports; the session manager, the API
// clients, and the file stores are assembled once per invocation in
// initServices.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/fabricctl/internal/adapters/driven/auth"
	"github.com/custodia-labs/fabricctl/internal/adapters/driven/config/file"
	"github.com/custodia-labs/fabricctl/internal/adapters/driven/fabric"
	"github.com/custodia-labs/fabricctl/internal/core/domain"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driven"
	"github.com/custodia-labs/fabricctl/internal/core/ports/driving"
	"github.com/custodia-labs/fabricctl/internal/core/services"
	"github.com/custodia-labs/fabricctl/internal/logger"
)

// Config keys understood by the CLI. Flags override config values.
const (
	ConfigKeyTenantID           = "auth.tenant-id"
	ConfigKeyFabricEndpoint     = "api.fabric-endpoint"
	ConfigKeyManagementEndpoint = "api.management-endpoint"
	ConfigKeySubscriptionID     = "azure.subscription-id"
	ConfigKeyResourceGroup      = "azure.resource-group"
)

var version = "dev"

// Services used by the command handlers. Populated by initServices on
// the first command run; tests inject fakes directly.
var (
	sessionService   driving.SessionService
	fabricClient     *fabric.Client
	managementClient *fabric.Client
	configStore      driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "fabricctl",
	Short: "Provision Microsoft Fabric workspaces, items, and capacities",
	Long: `fabricctl provisions Microsoft Fabric resources from the command line.

Authenticate once with 'fabricctl auth login' (Azure CLI session) or
'fabricctl auth login-spn' (service principal); the session is cached in
~/.fabricctl and reused by later invocations. Setting FABRIC_ACCESS_TOKEN
in the environment overrides any cached session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		logger.Setup(verboseFlag)
		return initServices()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command. buildVersion is stamped by the linker.
func Execute(buildVersion string) error {
	if buildVersion != "" {
		version = buildVersion
	}
	return rootCmd.Execute()
}

// initServices assembles the session manager and API clients. A prior
// assignment (by a test) short-circuits the wiring.
func initServices() error {
	if sessionService != nil {
		return nil
	}

	cfg, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	store, err := file.NewSessionStore("")
	if err != nil {
		return fmt.Errorf("open session store: %w", err)
	}

	opts := []services.SessionOption{
		services.WithManualSource(auth.NewManualTokenSource()),
		services.WithSessionStore(store),
	}

	// Restore a prior login. A corrupt or unusable session file is not
	// fatal; the user just has to log in again.
	state, err := store.Load(context.Background())
	switch {
	case err == nil:
		if source, restoreErr := auth.Restore(state); restoreErr == nil {
			opts = append(opts, services.WithRestoredSession(source, state.Credentials))
		}
	case !errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("load session: %w", err)
	}

	manager := services.NewSessionManager(opts...)

	var fabricOpts, managementOpts []fabric.Option
	if endpoint := cfg.GetString(ConfigKeyFabricEndpoint); endpoint != "" {
		fabricOpts = append(fabricOpts, fabric.WithBaseURL(endpoint))
	}
	if endpoint := cfg.GetString(ConfigKeyManagementEndpoint); endpoint != "" {
		managementOpts = append(managementOpts, fabric.WithBaseURL(endpoint))
	}

	sessionService = manager
	fabricClient = fabric.NewClient(manager, fabricOpts...)
	managementClient = fabric.NewManagementClient(manager, managementOpts...)
	configStore = cfg
	return nil
}
