package cli

import (
	"github.com/spf13/cobra"

	"github.com/btw-claude/confluence-skills/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and verify Confluence credentials",
	}

	cmd.AddCommand(newConfigShowCmd(a))
	cmd.AddCommand(newConfigVerifyCmd(a))

	return cmd
}

func newConfigShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration with secrets masked",
		Long: `Print the configuration the other commands would use, and where it was read
from. Tokens are masked.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolveConfig(a.logger(cmd))
			if err != nil {
				return err
			}
			return output.WriteJSON(cmd.OutOrStdout(), cfg.Redacted())
		},
	}
}

func newConfigVerifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Verify credentials by calling the Confluence API",
		Long:  "Verify that the configured credentials are valid by making a test API call (GET /rest/api/space?limit=1).",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.connect(a.logger(cmd))
			if err != nil {
				return err
			}
			result, err := client.VerifyAuth(cmd.Context())
			if err != nil {
				return err
			}
			return output.WriteJSON(cmd.OutOrStdout(), result)
		},
	}
}
