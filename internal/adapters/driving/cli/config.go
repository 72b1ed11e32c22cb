package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage fabricctl configuration",
	Long: `Read and write configuration stored in ~/.fabricctl/config.toml.

Keys use dot notation, e.g. 'auth.tenant-id' or 'azure.subscription-id'.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get KEY",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	RunE:  runConfigList,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}
	cmd.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := strings.TrimSpace(args[0])
	if key == "" {
		return errors.New("key must not be empty")
	}
	if err := configStore.Set(key, args[1]); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	keys := configStore.Keys()
	if len(keys) == 0 {
		cmd.Println(dimStyle.Render("No configuration set. (" + configStore.Path() + ")"))
		return nil
	}

	rows := make([][]string, 0, len(keys))
	for _, key := range keys {
		value, _ := configStore.Get(key)
		rows = append(rows, []string{key, fmt.Sprintf("%v", value)})
	}
	printTable(cmd, []string{"KEY", "VALUE"}, rows)
	return nil
}
