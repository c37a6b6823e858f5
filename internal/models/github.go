package models

// ActivityItem is one pull request or issue found by a GitHub search
type ActivityItem struct {
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description" yaml:"description"`
}

// GitHubActivity holds a user's GitHub activity within a time window.
// A pull request merged within the window is listed only under
// MergedPullRequests.
type GitHubActivity struct {
	MergedPullRequests  []ActivityItem `json:"merged_pull_requests" yaml:"merged_pull_requests"`
	CreatedPullRequests []ActivityItem `json:"created_pull_requests" yaml:"created_pull_requests"`
	CreatedIssues       []ActivityItem `json:"created_issues" yaml:"created_issues"`
}

// NewGitHubActivity builds the activity summary and applies the merged-first
// dedup rule to the created pull requests.
func NewGitHubActivity(merged, created, issues []ActivityItem) *GitHubActivity {
	seen := make(map[string]struct{}, len(merged))
	for _, pr := range merged {
		seen[pr.URL] = struct{}{}
	}

	onlyCreated := make([]ActivityItem, 0, len(created))
	for _, pr := range created {
		if _, ok := seen[pr.URL]; ok {
			continue
		}
		onlyCreated = append(onlyCreated, pr)
	}

	return &GitHubActivity{
		MergedPullRequests:  nonNil(merged),
		CreatedPullRequests: onlyCreated,
		CreatedIssues:       nonNil(issues),
	}
}

// Total returns the number of items across all three lists
func (a GitHubActivity) Total() int {
	return len(a.MergedPullRequests) + len(a.CreatedPullRequests) + len(a.CreatedIssues)
}

func nonNil(items []ActivityItem) []ActivityItem {
	if items == nil {
		return []ActivityItem{}
	}
	return items
}
