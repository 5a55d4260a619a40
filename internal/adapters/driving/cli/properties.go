package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arden-labs/gsc-cli/internal/gsc"
)

var propertiesJSON bool

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "List web properties the account can access",
	Long: `Lists every web property visible to the authenticated account with
its permission level. Unverified properties accept no queries until the
site is verified in Search Console.`,
	RunE: runProperties,
}

func init() {
	propertiesCmd.Flags().BoolVar(&propertiesJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(propertiesCmd)
}

func runProperties(cmd *cobra.Command, _ []string) error {
	account, err := newAccountFunc(cmd)
	if err != nil {
		return err
	}

	properties, err := account.Webproperties(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing properties: %w", err)
	}

	if propertiesJSON {
		return outputPropertiesJSON(cmd, properties)
	}
	return outputPropertiesTable(cmd, properties)
}

func outputPropertiesJSON(cmd *cobra.Command, properties []*gsc.WebProperty) error {
	type propertyInfo struct {
		SiteURL         string `json:"site_url"`
		PermissionLevel string `json:"permission_level"`
		Verified        bool   `json:"verified"`
	}

	infos := make([]propertyInfo, len(properties))
	for i, wp := range properties {
		infos[i] = propertyInfo{
			SiteURL:         wp.URL,
			PermissionLevel: wp.RawPermission,
			Verified:        wp.Verified(),
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal properties: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputPropertiesTable(cmd *cobra.Command, properties []*gsc.WebProperty) error {
	if len(properties) == 0 {
		cmd.Println("No web properties found.")
		return nil
	}

	rows := make([][]string, len(properties))
	for i, wp := range properties {
		permission := wp.RawPermission
		if !wp.Verified() {
			permission = warnStyle.Render(permission)
		}
		rows[i] = []string{wp.URL, permission}
	}

	cmd.Print(renderTable([]string{"SITE", "PERMISSION"}, rows))
	return nil
}
