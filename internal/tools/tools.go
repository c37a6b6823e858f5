package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/githubsearch"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
	"github.com/nahidhasan98/status-report-assistant/internal/models"
	"github.com/nahidhasan98/status-report-assistant/internal/validation"
)

// ServerName identifies this server to MCP hosts
const ServerName = "status-report-assistant"

// Tool names
const (
	RootDirectoryTool  = "get_root_directory"
	WorkLogTool        = "gather_work_log"
	GitHubActivityTool = "gather_github_activity"
	DraftEmailTool     = "create_draft_email"
)

// DraftCreatedMessage is returned when the mail provider saved the draft
const DraftCreatedMessage = "Successfully created the draft email!"

// WorkLogGatherer reads local git history
type WorkLogGatherer interface {
	WorkLog(ctx context.Context, dirs []string, after, before, authorEmail string) (*models.WorkLog, error)
}

// ActivitySearcher reads GitHub activity
type ActivitySearcher interface {
	Activity(ctx context.Context, author, after, before string) (*models.GitHubActivity, error)
}

// DraftCreator saves email drafts
type DraftCreator interface {
	CreateDraft(ctx context.Context, req models.DraftRequest) (*models.DraftResult, error)
}

// RootDirectoryInput takes no arguments
type RootDirectoryInput struct{}

// WorkLogInput is the argument schema of gather_work_log
type WorkLogInput struct {
	Dirs        []string `json:"dirs" jsonschema:"Paths of the directories the work log should be generated from. Never pass a directory that contains . in its path, but ~ is okay."`
	After       string   `json:"after" jsonschema:"The starting point of the time span for the work log"`
	Before      string   `json:"before,omitempty" jsonschema:"The ending point of the time span for the work log (default: now)"`
	AuthorEmail string   `json:"author_email,omitempty" jsonschema:"Commit author email; defaults to the global git user.email"`
}

// GitHubActivityInput is the argument schema of gather_github_activity
type GitHubActivityInput struct {
	Author string `json:"author" jsonschema:"GitHub login of the person whose activity is summarized"`
	After  string `json:"after" jsonschema:"Start of the time span as YYYY-MM-DD, or * for no limit"`
	Before string `json:"before,omitempty" jsonschema:"End of the time span as YYYY-MM-DD, or * for no limit (default: *)"`
}

// DraftEmailInput is the argument schema of create_draft_email
type DraftEmailInput struct {
	To      []string `json:"to" jsonschema:"Recipients of this email draft"`
	Subject string   `json:"subject" jsonschema:"Subject of this draft email"`
	Content string   `json:"content" jsonschema:"Content of this draft email"`
}

// Toolset implements the tools. Every failure is turned into a
// human-readable text result since hosts expect text in all cases.
type Toolset struct {
	worklog   WorkLogGatherer
	github    ActivitySearcher
	mail      DraftCreator
	homeDir   string
	validator *validation.Validator
	log       *logger.Logger
}

// New creates a toolset
func New(worklog WorkLogGatherer, github ActivitySearcher, mail DraftCreator, homeDir string, log *logger.Logger) *Toolset {
	return &Toolset{
		worklog:   worklog,
		github:    github,
		mail:      mail,
		homeDir:   homeDir,
		validator: validation.New(),
		log:       log,
	}
}

// Names lists the registered tools
func Names() []string {
	return []string{RootDirectoryTool, WorkLogTool, GitHubActivityTool, DraftEmailTool}
}

// NewServer creates an MCP server exposing the toolset
func NewServer(ts *Toolset, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: ServerName, Version: version}, nil)
	ts.Register(server)
	return server
}

// Register adds every tool to server
func (ts *Toolset) Register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        RootDirectoryTool,
		Description: "Get the root directory of the running machine which usually represents as ~",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, _ RootDirectoryInput) (*mcp.CallToolResult, any, error) {
		return textResult(ts.RootDirectory()), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        WorkLogTool,
		Description: "Gather all the commit messages within the given time span for the given directories",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in WorkLogInput) (*mcp.CallToolResult, any, error) {
		return textResult(ts.GatherWorkLog(ctx, in)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        GitHubActivityTool,
		Description: "Summarize a GitHub user's merged pull requests, created pull requests and created issues within the given time span",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in GitHubActivityInput) (*mcp.CallToolResult, any, error) {
		return textResult(ts.GatherGitHubActivity(ctx, in)), nil, nil
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        DraftEmailTool,
		Description: "Create a draft email with the given subject, content, and receiver",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, in DraftEmailInput) (*mcp.CallToolResult, any, error) {
		return textResult(ts.CreateDraftEmail(ctx, in)), nil, nil
	})
}

// RootDirectory returns the directory ~ stands for
func (ts *Toolset) RootDirectory() string {
	return ts.homeDir
}

// GatherWorkLog renders the work log for in
func (ts *Toolset) GatherWorkLog(ctx context.Context, in WorkLogInput) string {
	log := ts.log.With("tool", WorkLogTool)

	if appErr := ts.validator.ValidateWorkLogRequest(in.Dirs, in.After); appErr != nil {
		return ts.failure(log, "Failed to gather work log", appErr)
	}

	workLog, err := ts.worklog.WorkLog(ctx, in.Dirs, in.After, in.Before, in.AuthorEmail)
	if err != nil {
		return ts.failure(log, "Failed to gather work log", err)
	}

	log.Infof("Gathered work log from %d of %d director(ies)", len(workLog.Entries), len(in.Dirs))
	return workLog.String()
}

// GatherGitHubActivity renders the GitHub activity for in as indented JSON
func (ts *Toolset) GatherGitHubActivity(ctx context.Context, in GitHubActivityInput) string {
	log := ts.log.With("tool", GitHubActivityTool)

	before := in.Before
	if before == "" {
		before = githubsearch.OpenEnd
	}

	if appErr := ts.validator.ValidateActivityRequest(in.Author, in.After, before); appErr != nil {
		return ts.failure(log, "Failed to gather GitHub activity", appErr)
	}

	activity, err := ts.github.Activity(ctx, in.Author, in.After, before)
	if err != nil {
		return ts.failure(log, "Failed to gather GitHub activity", err)
	}

	b, err := json.MarshalIndent(activity, "", "  ")
	if err != nil {
		return ts.failure(log, "Failed to gather GitHub activity", errors.InternalError(err))
	}

	log.Infof("Found %d GitHub item(s) for %s", activity.Total(), in.Author)
	return string(b)
}

// CreateDraftEmail saves a draft and reports the outcome
func (ts *Toolset) CreateDraftEmail(ctx context.Context, in DraftEmailInput) string {
	log := ts.log.With("tool", DraftEmailTool)

	req := models.DraftRequest{To: in.To, Subject: in.Subject, Content: in.Content}
	if appErr := ts.validator.ValidateDraftRequest(&req); appErr != nil {
		return ts.failure(log, "Failed to create the draft email", appErr)
	}

	if _, err := ts.mail.CreateDraft(ctx, req); err != nil {
		return ts.failure(log, "Failed to create the draft email", err)
	}

	return DraftCreatedMessage
}

func (ts *Toolset) failure(log *logger.Logger, prefix string, err error) string {
	log.Error(prefix, err)
	return fmt.Sprintf("%s: %s", prefix, errors.Describe(err))
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
