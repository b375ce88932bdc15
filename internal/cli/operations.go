package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/btw-claude/confluence-skills/internal/operation"
)

var groupShort = map[string]string{
	"spaces":      "Manage spaces",
	"pages":       "Manage pages",
	"comments":    "Manage footer comments",
	"labels":      "Manage page labels",
	"attachments": "Inspect and delete attachments",
}

// newOperationCmds builds one command per group, in group order. Catalog
// entries with a name become its subcommands; a nameless entry is the group
// command itself.
func newOperationCmds(a *app) []*cobra.Command {
	groups := map[string]*cobra.Command{}
	for _, group := range operation.Groups() {
		groups[group] = &cobra.Command{
			Use:   group,
			Short: groupShort[group],
		}
	}

	for _, def := range operation.Catalog() {
		if def.Name == "" {
			groups[def.Group] = newOperationCmd(a, def, def.Group)
			continue
		}
		groups[def.Group].AddCommand(newOperationCmd(a, def, def.Name))
	}

	out := make([]*cobra.Command, 0, len(groups))
	for _, group := range operation.Groups() {
		out = append(out, groups[group])
	}
	return out
}

func newOperationCmd(a *app, def *operation.Definition, use string) *cobra.Command {
	return &cobra.Command{
		Use:     use,
		Short:   def.Short,
		Long:    operationHelp(def),
		Example: fmt.Sprintf("  echo '%s' | confluence %s", def.Example, def.CommandPath()),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := a.logger(cmd)
			runner := &operation.Runner{
				Logger: logger,
				Connect: func() (operation.Caller, error) {
					return a.connect(logger)
				},
			}
			return runner.Run(cmd.Context(), def, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func operationHelp(def *operation.Definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.\n\nReads a JSON object on stdin (%s %s%s).\n\nParameters:\n",
		def.Short, def.Method, def.API.Prefix(), def.Path)
	for _, p := range def.Params {
		fmt.Fprintf(&b, "  %-22s %s", p.Name, p.Type)
		if p.Required {
			b.WriteString(", required")
		}
		if p.Default != nil {
			fmt.Fprintf(&b, ", default %v", p.Default)
		}
		if p.Help != "" {
			fmt.Fprintf(&b, ": %s", p.Help)
		}
		b.WriteString("\n")
	}
	return b.String()
}
