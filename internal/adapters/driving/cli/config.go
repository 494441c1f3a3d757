package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// configKeys are the settings 'config list' displays, in display order.
var configKeys = []string{
	"chunking.size",
	"chunking.overlap",
	"chunking.strip_comments",
	"ingest.workers",
	"ingest.exclude",
	"search.default_limit",
	"answer.default_mode",
	"remote.endpoint",
	"remote.api_key",
	"remote.timeout_seconds",
	"remote.retries",
	"remote.retry_delay_ms",
	"remote.fallback_local",
	"github.token",
	"notion.token",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit the src-to-kb configuration file.

Keys use dot notation, e.g. chunking.size or remote.endpoint. Values set
here become the defaults for every run.`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show all configuration values",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Configuration (%s):\n\n", configStore.Path())
	for _, key := range configKeys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-24s (not set)\n", key)
			continue
		}
		cmd.Printf("  %-24s %v\n", key, displayValue(key, val))
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	val, ok := configStore.Get(key)
	if !ok {
		cmd.Printf("%s is not set\n", key)
		return nil
	}

	cmd.Printf("%v\n", displayValue(key, val))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	if err := configStore.Set(key, parseConfigValue(raw)); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	cmd.Printf("Set %s\n", key)
	return nil
}

// parseConfigValue keeps TOML types: bools, integers and floats are
// stored typed, everything else as a string.
func parseConfigValue(raw string) any {
	if raw == "true" || raw == "false" {
		return raw == "true"
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}
	return raw
}

// displayValue masks secret values in output.
func displayValue(key string, val any) any {
	if s, ok := val.(string); ok && isSecretKey(key) {
		return maskSecret(s)
	}
	return val
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "token") || strings.HasSuffix(key, "api_key")
}

func maskSecret(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
