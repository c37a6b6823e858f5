package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nahidhasan98/status-report-assistant/internal/githubsearch"
	"github.com/nahidhasan98/status-report-assistant/internal/models"
	"github.com/nahidhasan98/status-report-assistant/internal/validation"
)

func newGitHubCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "github <login>",
		Short:   "Print a user's GitHub pull requests and issues",
		Example: "  status-report github octocat --after 2024-01-01 --before 2024-01-31",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			author := args[0]
			after, _ := cmd.Flags().GetString("after")
			before, _ := cmd.Flags().GetString("before")
			if before == "" {
				before = githubsearch.OpenEnd
			}

			if appErr := validation.New().ValidateActivityRequest(author, after, before); appErr != nil {
				return appErr
			}

			a, err := newApp(nil)
			if err != nil {
				return err
			}

			activity, err := a.github.Activity(cmd.Context(), author, after, before)
			if err != nil {
				return err
			}
			return render(cmd, activity, activityText(activity))
		},
	}

	cmd.Flags().String("after", "", "Start of the time span as YYYY-MM-DD, or * for no limit")
	cmd.Flags().String("before", githubsearch.OpenEnd, "End of the time span as YYYY-MM-DD, or * for no limit")

	return cmd
}

// activityText lists each section with one "title <url>" line per item
func activityText(activity *models.GitHubActivity) string {
	sections := []struct {
		title string
		items []models.ActivityItem
	}{
		{"Merged pull requests", activity.MergedPullRequests},
		{"Created pull requests", activity.CreatedPullRequests},
		{"Created issues", activity.CreatedIssues},
	}

	var sb strings.Builder
	for i, section := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		fmt.Fprintf(&sb, "%s (%d)\n", section.title, len(section.items))
		for _, item := range section.items {
			fmt.Fprintf(&sb, "  - %s <%s>\n", item.Title, item.URL)
		}
	}
	return sb.String()
}
