package githubsearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"

	"github.com/nahidhasan98/status-report-assistant/internal/config"
	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
	"github.com/nahidhasan98/status-report-assistant/internal/models"
)

// OpenEnd is the range bound meaning "no upper limit"
const OpenEnd = "*"

// Kind selects one of the three searches
type Kind struct {
	Type      string // "pr" or "issue"
	Qualifier string // "merged" or "created"
	Label     string // used in error messages
}

var (
	MergedPullRequests  = Kind{Type: "pr", Qualifier: "merged", Label: "merged pull requests"}
	CreatedPullRequests = Kind{Type: "pr", Qualifier: "created", Label: "pull requests created"}
	CreatedIssues       = Kind{Type: "issue", Qualifier: "created", Label: "issues created"}
)

// Client runs issue searches against the GitHub REST API
type Client struct {
	gh      *github.Client
	perPage int
	log     *logger.Logger
}

// New creates a search client. A token is optional; without one GitHub
// applies the anonymous search rate limit.
func New(cfg config.GitHubConfig, log *logger.Logger) (*Client, error) {
	var httpClient *http.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	gh := github.NewClient(httpClient)
	if cfg.APIURL != "" {
		base, err := url.Parse(strings.TrimSuffix(cfg.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub API URL %q: %w", cfg.APIURL, err)
		}
		gh.BaseURL = base
	}

	perPage := cfg.PerPage
	if perPage <= 0 {
		perPage = 100
	}

	return &Client{gh: gh, perPage: perPage, log: log}, nil
}

// Query builds the search string for kind, e.g.
// "type:pr author:octocat merged:2024-01-01..2024-01-31".
func Query(kind Kind, author, after, before string) string {
	return fmt.Sprintf("type:%s author:%s %s:%s..%s", kind.Type, author, kind.Qualifier, after, before)
}

// Search returns the first page of results for kind
func (c *Client) Search(ctx context.Context, kind Kind, author, after, before string) ([]models.ActivityItem, error) {
	q := Query(kind, author, after, before)
	opts := &github.SearchOptions{ListOptions: github.ListOptions{PerPage: c.perPage}}

	result, _, err := c.gh.Search.Issues(ctx, q, opts)
	if err != nil {
		c.log.With("query", q).Error("GitHub search failed", err)
		return nil, errors.GitHubRequestFailed(fmt.Sprintf("Failed to gather %s in the given time span", kind.Label), err)
	}

	items := make([]models.ActivityItem, 0, len(result.Issues))
	for _, issue := range result.Issues {
		items = append(items, models.ActivityItem{
			Title:       issue.GetTitle(),
			URL:         issue.GetHTMLURL(),
			Description: issue.GetBody(),
		})
	}

	if result.GetIncompleteResults() || result.GetTotal() > len(items) {
		c.log.With("query", q).Warnf("Search returned %d of %d result(s)", len(items), result.GetTotal())
	}

	return items, nil
}

// Activity runs the three searches and merges them into one summary.
// An empty before means the window is open-ended.
func (c *Client) Activity(ctx context.Context, author, after, before string) (*models.GitHubActivity, error) {
	if before == "" {
		before = OpenEnd
	}

	merged, err := c.Search(ctx, MergedPullRequests, author, after, before)
	if err != nil {
		return nil, err
	}

	created, err := c.Search(ctx, CreatedPullRequests, author, after, before)
	if err != nil {
		return nil, err
	}

	issues, err := c.Search(ctx, CreatedIssues, author, after, before)
	if err != nil {
		return nil, err
	}

	return models.NewGitHubActivity(merged, created, issues), nil
}
