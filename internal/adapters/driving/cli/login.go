package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arden-labs/gsc-cli/internal/adapters/driven/auth"
	"github.com/arden-labs/gsc-cli/internal/adapters/driven/config/file"
	"github.com/arden-labs/gsc-cli/internal/core/domain"
	"github.com/arden-labs/gsc-cli/internal/gsc"
	"github.com/arden-labs/gsc-cli/internal/logger"
)

var (
	loginFlow  string
	loginScope string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize gsc against Google Search Console",
	Long: `Runs an OAuth2 flow against the configured client secrets and saves
the granted credentials for later commands.

The web flow opens a browser and captures the authorization code on a
loopback server. The console flow prints the authorization URL and reads
the pasted redirect URL, for remote shells without a browser.

A service-account key needs no flow; login then only verifies the key
parses. Service accounts and OAuth2 inputs are mutually exclusive.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVar(&loginFlow, "flow", "", "authorization flow: web or console (default web)")
	loginCmd.Flags().StringVar(&loginScope, "scope", "readonly", "access scope: readonly or full")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	opts := authOptions(cmd)
	if opts.ClientConfig == nil && opts.ServiceAccount == nil {
		return fmt.Errorf("%w: login requires --client-secrets or --service-account", domain.ErrAuthRequired)
	}

	// Stored credentials would short-circuit the flow; login always runs it.
	savePath := ""
	if s, ok := opts.Credentials.(string); ok {
		savePath = s
	}
	opts.Credentials = nil

	opts.Flow = resolveSetting(cmd, "flow", loginFlow, "GSC_FLOW", file.KeyFlow)

	switch loginScope {
	case "", "readonly":
		opts.Scopes = []string{auth.ScopeReadonly}
	case "full":
		opts.Scopes = []string{auth.ScopeFull}
	default:
		return fmt.Errorf("unknown scope %q (want readonly or full)", loginScope)
	}

	if opts.ServiceAccount == nil {
		if savePath == "" {
			savePath = defaultCredentialsPath()
		}
		opts.Serialize = savePath
	}

	account, err := gsc.Authenticate(cmd.Context(), opts,
		gsc.WithLogger(logger.Named("service")))
	if err != nil {
		return fmt.Errorf("authenticating: %w", err)
	}

	cmd.Printf("Authenticated as %s\n", account.Identifier())
	if opts.Serialize != "" {
		cmd.Printf("Credentials saved to %s\n", opts.Serialize)
	}
	return nil
}
