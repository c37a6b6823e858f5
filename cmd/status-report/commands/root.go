package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is stamped at build time with -ldflags "-X ...commands.Version=v1.2.3"
var Version = ""

func version() string {
	if Version != "" {
		return Version
	}
	if v := os.Getenv("STATUS_REPORT_VERSION"); v != "" {
		return v
	}
	return "0.0.0-dev"
}

// NewRootCmd constructs the status-report root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status-report",
		Short: "Status report assistant",
		Long: "Gathers git work logs and GitHub activity and drafts status report emails. " +
			"Run `serve` to expose the same operations as MCP tools.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return checkOutputFormat(cmd)
		},
	}

	cmd.PersistentFlags().StringP("output", "o", formatText, "Output format: text, json or yaml")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "status-report version %s\n", version())
		},
	})

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHomeCmd())
	cmd.AddCommand(newWorkLogCmd())
	cmd.AddCommand(newGitHubCmd())
	cmd.AddCommand(newDraftCmd())

	return cmd
}
