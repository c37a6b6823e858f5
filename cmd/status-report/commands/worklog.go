package commands

import (
	"github.com/spf13/cobra"

	"github.com/nahidhasan98/status-report-assistant/internal/validation"
)

func newWorkLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worklog [dir...]",
		Short: "Print your commits in the given directories",
		Long: "Collects the commits authored by you between --after and --before in each directory. " +
			"Dates accept anything git log understands, such as 2024-01-01 or \"last monday\".",
		Example: "  status-report worklog ~/src/api ~/src/web --after \"1 week ago\"",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, _ := cmd.Flags().GetStringSlice("dir")
			dirs = append(dirs, args...)
			after, _ := cmd.Flags().GetString("after")
			before, _ := cmd.Flags().GetString("before")
			email, _ := cmd.Flags().GetString("author-email")

			if appErr := validation.New().ValidateWorkLogRequest(dirs, after); appErr != nil {
				return appErr
			}

			a, err := newApp(nil)
			if err != nil {
				return err
			}

			workLog, err := a.worklog.WorkLog(cmd.Context(), dirs, after, before, email)
			if err != nil {
				return err
			}
			return render(cmd, workLog, workLog.String())
		},
	}

	cmd.Flags().StringSlice("dir", nil, "Directory to collect commits from (repeatable)")
	cmd.Flags().String("after", "", "Start of the time span")
	cmd.Flags().String("before", "now", "End of the time span")
	cmd.Flags().String("author-email", "", "Commit author email (default: git config --global user.email)")

	return cmd
}
