package gitlog

import (
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
	"github.com/nahidhasan98/status-report-assistant/internal/models"
	"github.com/nahidhasan98/status-report-assistant/internal/pathutil"
)

// DefaultBefore is the upper bound used when the caller gives none
const DefaultBefore = "now"

// Collector gathers commit details for one author across directories
type Collector struct {
	runner  Runner
	homeDir string
	log     *logger.Logger
}

// NewCollector creates a collector that expands ~ to homeDir
func NewCollector(runner Runner, homeDir string, log *logger.Logger) *Collector {
	return &Collector{
		runner:  runner,
		homeDir: homeDir,
		log:     log,
	}
}

// WorkLog collects, for every dir in order, the `git show --stat` output of
// each commit by the author inside (after, before). authorEmail overrides the
// global git user.email. The first directory whose log cannot be read fails
// the whole request.
func (c *Collector) WorkLog(ctx context.Context, dirs []string, after, before, authorEmail string) (*models.WorkLog, error) {
	if before == "" {
		before = DefaultBefore
	}

	email, err := c.AuthorEmail(ctx, authorEmail)
	if err != nil {
		return nil, err
	}

	workLog := &models.WorkLog{}
	for _, dir := range dirs {
		dir = pathutil.ExpandHome(dir, c.homeDir)

		commits, err := c.Commits(ctx, dir, email, after, before)
		if err != nil {
			return nil, err
		}

		workLog.Add(dir, commits)
	}

	return workLog, nil
}

// Commits returns the details of every commit by email in dir within the window
func (c *Collector) Commits(ctx context.Context, dir, email, after, before string) ([]string, error) {
	hashes, err := c.CommitHashes(ctx, dir, email, after, before)
	if err != nil {
		return nil, err
	}

	var details []string
	for _, hash := range hashes {
		detail, err := c.CommitDetails(ctx, dir, hash)
		if err != nil {
			// A single unreadable commit does not spoil the directory
			c.log.With("dir", dir).With("commit", hash).Warnf("Skipping commit: %v", err)
			continue
		}
		if detail != "" {
			details = append(details, detail)
		}
	}

	c.log.With("dir", dir).Debugf("Collected %d commit(s)", len(details))
	return details, nil
}

// CommitHashes lists abbreviated hashes of commits by email on all refs
func (c *Collector) CommitHashes(ctx context.Context, dir, email, after, before string) ([]string, error) {
	out, err := c.runner.Run(ctx, dir,
		"log",
		"--all",
		"--pretty=format:%h",
		"--author="+email,
		"--after="+after,
		"--before="+before,
	)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.GitCommandNotFound(err)
		}
		return nil, errors.CommitHashesFailed(dir, err)
	}

	var hashes []string
	for _, line := range strings.Split(string(out), "\n") {
		if hash := strings.Trim(strings.TrimSpace(line), `"`); hash != "" {
			hashes = append(hashes, hash)
		}
	}
	return hashes, nil
}

// CommitDetails returns the trimmed `git show --stat` output for hash
func (c *Collector) CommitDetails(ctx context.Context, dir, hash string) (string, error) {
	out, err := c.runner.Run(ctx, dir, "show", "--stat", hash)
	if err != nil {
		return "", fmt.Errorf("show %s: %w", hash, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// AuthorEmail resolves the author: the explicit value when given, otherwise
// the global git user.email.
func (c *Collector) AuthorEmail(ctx context.Context, explicit string) (string, error) {
	if email := strings.TrimSpace(explicit); email != "" {
		return email, nil
	}

	out, err := c.runner.Run(ctx, "", "config", "--global", "user.email")
	if err != nil {
		if isNotFound(err) {
			return "", errors.GitCommandNotFound(err)
		}
		return "", errors.UserEmailNotFound(err.Error())
	}

	email := strings.TrimSpace(string(out))
	if email == "" {
		return "", errors.UserEmailNotFound("")
	}
	return email, nil
}

func isNotFound(err error) bool {
	return stderrors.Is(err, exec.ErrNotFound)
}
