package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/btw-claude/confluence-skills/internal/operation"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List every operation with its endpoint and required parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "COMMAND\tMETHOD\tENDPOINT\tREQUIRED\tDESCRIPTION")
			for _, def := range operation.Catalog() {
				fmt.Fprintf(tw, "%s\t%s\t%s%s\t%s\t%s\n",
					def.CommandPath(), def.Method, def.API.Prefix(), def.Path, requiredParams(def), def.Short)
			}
			return tw.Flush()
		},
	}
}

func requiredParams(def *operation.Definition) string {
	var names []string
	for _, p := range def.Params {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ",")
}
