package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Suspend and resume Fabric capacities",
	Long: `Pause and restart dedicated capacities through the Azure management
API. Subscription and resource group default to the config keys
azure.subscription-id and azure.resource-group.`,
}

var capacitySuspendCmd = &cobra.Command{
	Use:   "suspend NAME",
	Short: "Suspend a capacity",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapacitySuspend,
}

var capacityResumeCmd = &cobra.Command{
	Use:   "resume NAME",
	Short: "Resume a capacity",
	Args:  cobra.ExactArgs(1),
	RunE:  runCapacityResume,
}

var (
	capacitySubscriptionID string
	capacityResourceGroup  string
)

func init() {
	for _, c := range []*cobra.Command{capacitySuspendCmd, capacityResumeCmd} {
		c.Flags().StringVar(&capacitySubscriptionID, "subscription", "", "Azure subscription GUID")
		c.Flags().StringVar(&capacityResourceGroup, "resource-group", "", "Azure resource group")
	}

	capacityCmd.AddCommand(capacitySuspendCmd)
	capacityCmd.AddCommand(capacityResumeCmd)
	rootCmd.AddCommand(capacityCmd)
}

func runCapacitySuspend(cmd *cobra.Command, args []string) error {
	sub, group, err := capacityTarget()
	if err != nil {
		return err
	}
	if err := managementClient.SuspendCapacity(cmd.Context(), sub, group, args[0]); err != nil {
		return err
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Suspending capacity %q.", args[0])))
	return nil
}

func runCapacityResume(cmd *cobra.Command, args []string) error {
	sub, group, err := capacityTarget()
	if err != nil {
		return err
	}
	if err := managementClient.ResumeCapacity(cmd.Context(), sub, group, args[0]); err != nil {
		return err
	}
	cmd.Println(successStyle.Render(fmt.Sprintf("Resuming capacity %q.", args[0])))
	return nil
}

// capacityTarget resolves subscription and resource group from flags
// with config fallback.
func capacityTarget() (subscription, resourceGroup string, err error) {
	subscription = capacitySubscriptionID
	if subscription == "" {
		subscription = configStore.GetString(ConfigKeySubscriptionID)
	}
	resourceGroup = capacityResourceGroup
	if resourceGroup == "" {
		resourceGroup = configStore.GetString(ConfigKeyResourceGroup)
	}

	if subscription == "" || resourceGroup == "" {
		return "", "", errors.New("--subscription and --resource-group are required (or set azure.subscription-id and azure.resource-group in config)")
	}
	if err := validateGUID("subscription ID", subscription); err != nil {
		return "", "", err
	}
	return subscription, resourceGroup, nil
}
