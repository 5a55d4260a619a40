// Package cli provides the gsc command-line interface.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arden-labs/gsc-cli/internal/adapters/driven/auth"
	"github.com/arden-labs/gsc-cli/internal/adapters/driven/config/file"
	"github.com/arden-labs/gsc-cli/internal/gsc"
	"github.com/arden-labs/gsc-cli/internal/logger"
)

// version is the CLI version, overridden at release time via
// -ldflags "-X .../internal/adapters/driving/cli.version=...".
var version = "dev"

// Root flag values.
var (
	cfgDir             string
	flagCredentials    string
	flagClientSecrets  string
	flagServiceAccount string
	flagVerbose        bool
)

// configStore holds the loaded CLI configuration.
var configStore *file.ConfigStore

var rootCmd = &cobra.Command{
	Use:   "gsc",
	Short: "Query Google Search Console search analytics",
	Long: `gsc authenticates against Google Search Console and runs
search-analytics queries from the command line.

Credentials come from a stored credentials file, an OAuth2 client-secrets
file (interactive flow), or a service-account key. Results render as a
table, CSV or JSON, and can be exported to SQLite or XLSX.

Settings resolve in order: flags, then GSC_* environment variables, then
the config file.`,
	SilenceUsage:      true,
	PersistentPreRunE: initRoot,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default ~/.config/gsc)")
	rootCmd.PersistentFlags().StringVar(&flagCredentials, "credentials", "", "path to stored credentials (login saves here)")
	rootCmd.PersistentFlags().StringVar(&flagClientSecrets, "client-secrets", "", "path to OAuth2 client-secrets JSON")
	rootCmd.PersistentFlags().StringVar(&flagServiceAccount, "service-account", "", "path to service-account key JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// initRoot loads .env and the TOML config, and configures logging,
// before any command runs.
func initRoot(cmd *cobra.Command, _ []string) error {
	// A missing .env is not an error.
	_ = godotenv.Load()

	store, err := file.NewConfigStore(cfgDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	configStore = store

	logger.SetVerbose(resolveBool(cmd, "verbose", flagVerbose, "GSC_VERBOSE", file.KeyVerbose))

	return nil
}

// resolveSetting returns the effective value for a setting: an explicitly
// set flag wins, then the environment, then the config file.
func resolveSetting(cmd *cobra.Command, flagName, flagValue, envKey, cfgKey string) string {
	if cmd != nil && cmd.Flags().Changed(flagName) {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	if configStore != nil {
		if v := configStore.GetString(cfgKey); v != "" {
			return v
		}
	}
	return flagValue
}

// resolveBool is resolveSetting for boolean settings.
func resolveBool(cmd *cobra.Command, flagName string, flagValue bool, envKey, cfgKey string) bool {
	if cmd != nil && cmd.Flags().Changed(flagName) {
		return flagValue
	}
	if v := os.Getenv(envKey); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	if configStore != nil {
		if _, ok := configStore.Get(cfgKey); ok {
			return configStore.GetBool(cfgKey)
		}
	}
	return flagValue
}

// authOptions assembles credential inputs per the precedence rules.
func authOptions(cmd *cobra.Command) auth.Options {
	opts := auth.Options{}

	if v := resolveSetting(cmd, "credentials", flagCredentials, "GSC_CREDENTIALS", file.KeyCredentials); v != "" {
		opts.Credentials = v
	}
	if v := resolveSetting(cmd, "client-secrets", flagClientSecrets, "GSC_CLIENT_SECRETS", file.KeyClientSecrets); v != "" {
		opts.ClientConfig = v
	}
	if v := resolveSetting(cmd, "service-account", flagServiceAccount, "GSC_SERVICE_ACCOUNT", file.KeyServiceAccount); v != "" {
		opts.ServiceAccount = v
	}
	if v := resolveSetting(cmd, "flow", "", "GSC_FLOW", file.KeyFlow); v != "" {
		opts.Flow = v
	}

	return opts
}

// newAccountFunc builds the authenticated account for a command.
// Package-level so tests can substitute a pre-built account.
var newAccountFunc = newAccount

func newAccount(cmd *cobra.Command) (*gsc.Account, error) {
	account, err := gsc.Authenticate(cmd.Context(), authOptions(cmd),
		gsc.WithLogger(logger.Named("service")))
	if err != nil {
		return nil, fmt.Errorf("authenticating: %w", err)
	}
	return account, nil
}

// defaultCredentialsPath is where login saves credentials when no
// --credentials path is given: next to the config file.
func defaultCredentialsPath() string {
	if configStore != nil {
		return filepath.Join(filepath.Dir(configStore.Path()), "credentials.json")
	}
	return "credentials.json"
}
