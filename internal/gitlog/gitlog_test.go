package gitlog

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/status-report-assistant/internal/errors"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
)

type call struct {
	dir  string
	args []string
}

// fakeRunner answers git invocations from a table keyed by dir and subcommand
type fakeRunner struct {
	email    string
	emailErr error
	logs     map[string]string
	logErrs  map[string]error
	shows    map[string]string
	calls    []call
}

func (f *fakeRunner) Run(_ context.Context, dir string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, call{dir: dir, args: args})

	switch args[0] {
	case "config":
		if f.emailErr != nil {
			return nil, f.emailErr
		}
		return []byte(f.email + "\n"), nil
	case "log":
		if err := f.logErrs[dir]; err != nil {
			return nil, err
		}
		return []byte(f.logs[dir]), nil
	case "show":
		out, ok := f.shows[args[len(args)-1]]
		if !ok {
			return nil, stderrors.New("exit status 128")
		}
		return []byte(out), nil
	}
	return nil, fmt.Errorf("unexpected git %v", args)
}

func (f *fakeRunner) logCall(dir string) []string {
	for _, c := range f.calls {
		if c.dir == dir && c.args[0] == "log" {
			return c.args
		}
	}
	return nil
}

func TestWorkLog_GroupsByDirectory(t *testing.T) {
	runner := &fakeRunner{
		email: "dev@example.com",
		logs: map[string]string{
			"/home/dev/src/api": "a1b2c3d\ne4f5a6b",
			"/srv/web":          "",
		},
		shows: map[string]string{
			"a1b2c3d": "commit a1b2c3d\n\n    Add endpoint\n\n api.go | 2 +-\n",
			"e4f5a6b": "commit e4f5a6b\n\n    Fix typo\n",
		},
	}
	c := NewCollector(runner, "/home/dev", logger.Nop())

	workLog, err := c.WorkLog(context.Background(), []string{"~/src/api", "/srv/web"}, "2024-01-01", "", "")
	require.NoError(t, err)

	require.Len(t, workLog.Entries, 1)
	assert.Equal(t, "/home/dev/src/api", workLog.Entries[0].Dir)
	assert.Equal(t, []string{
		"commit a1b2c3d\n\n    Add endpoint\n\n api.go | 2 +-",
		"commit e4f5a6b\n\n    Fix typo",
	}, workLog.Entries[0].Commits)

	assert.Equal(t, []string{
		"log", "--all", "--pretty=format:%h",
		"--author=dev@example.com", "--after=2024-01-01", "--before=now",
	}, runner.logCall("/home/dev/src/api"))
}

func TestWorkLog_ExplicitAuthorSkipsGitConfig(t *testing.T) {
	runner := &fakeRunner{
		emailErr: stderrors.New("exit status 1"),
		logs:     map[string]string{"/repo": ""},
	}
	c := NewCollector(runner, "/home/dev", logger.Nop())

	workLog, err := c.WorkLog(context.Background(), []string{"/repo"}, "1 week ago", "yesterday", "me@example.com")
	require.NoError(t, err)
	assert.True(t, workLog.IsEmpty())

	for _, call := range runner.calls {
		assert.NotEqual(t, "config", call.args[0])
	}
	assert.Contains(t, runner.logCall("/repo"), "--author=me@example.com")
	assert.Contains(t, runner.logCall("/repo"), "--before=yesterday")
}

func TestWorkLog_SkipsUnreadableCommits(t *testing.T) {
	runner := &fakeRunner{
		email: "dev@example.com",
		logs:  map[string]string{"/repo": "aaaaaaa\nbbbbbbb\n"},
		shows: map[string]string{"bbbbbbb": "commit bbbbbbb"},
	}
	c := NewCollector(runner, "/home/dev", logger.Nop())

	workLog, err := c.WorkLog(context.Background(), []string{"/repo"}, "2024-01-01", "now", "")
	require.NoError(t, err)
	require.Len(t, workLog.Entries, 1)
	assert.Equal(t, []string{"commit bbbbbbb"}, workLog.Entries[0].Commits)
}

func TestWorkLog_Failures(t *testing.T) {
	t.Run("missing user email", func(t *testing.T) {
		runner := &fakeRunner{emailErr: stderrors.New("exit status 1")}
		c := NewCollector(runner, "/home/dev", logger.Nop())

		_, err := c.WorkLog(context.Background(), []string{"/repo"}, "2024-01-01", "now", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeUserEmailNotFound))
		assert.Equal(t, "Can't find user.email for git: exit status 1", errors.Describe(err))
	})

	t.Run("blank user email", func(t *testing.T) {
		runner := &fakeRunner{email: "  "}
		c := NewCollector(runner, "/home/dev", logger.Nop())

		_, err := c.WorkLog(context.Background(), []string{"/repo"}, "2024-01-01", "now", "")
		assert.True(t, errors.Is(err, errors.ErrCodeUserEmailNotFound))
	})

	t.Run("git missing", func(t *testing.T) {
		runner := &fakeRunner{emailErr: fmt.Errorf("git config: %w", exec.ErrNotFound)}
		c := NewCollector(runner, "/home/dev", logger.Nop())

		_, err := c.WorkLog(context.Background(), []string{"/repo"}, "2024-01-01", "now", "")
		assert.True(t, errors.Is(err, errors.ErrCodeGitCommandNotFound))
	})

	t.Run("log fails in second directory", func(t *testing.T) {
		runner := &fakeRunner{
			email:   "dev@example.com",
			logs:    map[string]string{"/ok": "aaaaaaa"},
			logErrs: map[string]error{"/not-a-repo": stderrors.New("exit status 128")},
			shows:   map[string]string{"aaaaaaa": "commit aaaaaaa"},
		}
		c := NewCollector(runner, "/home/dev", logger.Nop())

		_, err := c.WorkLog(context.Background(), []string{"/ok", "/not-a-repo"}, "2024-01-01", "now", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeCommitHashesFailed))
		assert.Equal(t, "Fail to get commit hashes for the given directories: /not-a-repo", errors.Describe(err))
	})
}

func TestCommitHashes_StripsQuotes(t *testing.T) {
	runner := &fakeRunner{logs: map[string]string{"/repo": "\"abc1234\"\n\"def5678\""}}
	c := NewCollector(runner, "/home/dev", logger.Nop())

	hashes, err := c.CommitHashes(context.Background(), "/repo", "dev@example.com", "2024-01-01", "now")
	require.NoError(t, err)
	assert.Equal(t, []string{"abc1234", "def5678"}, hashes)
}

// TestExecRunner_RealRepository drives the collector against a throwaway
// repository with the system git binary.
func TestExecRunner_RealRepository(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(home, ".gitconfig"))

	repo := filepath.Join(home, "project")
	require.NoError(t, os.MkdirAll(repo, 0o755))

	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	git("config", "--global", "user.email", "dev@example.com")
	git("config", "--global", "user.name", "Dev")
	git("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "README.md"), []byte("hello\n"), 0o644))
	git("add", "README.md")
	git("commit", "-q", "-m", "Initial commit")
	require.NoError(t, os.WriteFile(filepath.Join(repo, "other.txt"), []byte("x\n"), 0o644))
	git("add", "other.txt")
	git("-c", "user.email=someone@example.com", "commit", "-q", "-m", "Someone else")

	c := NewCollector(ExecRunner{}, home, logger.Nop())

	workLog, err := c.WorkLog(context.Background(), []string{"~/project"}, "2000-01-01", "", "")
	require.NoError(t, err)
	require.Len(t, workLog.Entries, 1)
	require.Len(t, workLog.Entries[0].Commits, 1)
	assert.Contains(t, workLog.Entries[0].Commits[0], "Initial commit")
	assert.Contains(t, workLog.Entries[0].Commits[0], "README.md")

	_, err = c.WorkLog(context.Background(), []string{filepath.Join(home, "missing")}, "2000-01-01", "", "")
	assert.True(t, errors.Is(err, errors.ErrCodeCommitHashesFailed))

	_, err = NewCollector(ExecRunner{Binary: "git-binary-that-does-not-exist"}, home, logger.Nop()).
		AuthorEmail(context.Background(), "")
	assert.True(t, errors.Is(err, errors.ErrCodeGitCommandNotFound))
}

func TestExecRunner_HomeSelectsGlobalConfig(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	processHome := t.TempDir()
	homeDir := t.TempDir()
	t.Setenv("HOME", processHome)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(processHome, ".config"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	if prev, ok := os.LookupEnv("GIT_CONFIG_GLOBAL"); ok {
		require.NoError(t, os.Unsetenv("GIT_CONFIG_GLOBAL"))
		t.Cleanup(func() { _ = os.Setenv("GIT_CONFIG_GLOBAL", prev) })
	}

	gitconfig := "[user]\n\temail = dev@example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(homeDir, ".gitconfig"), []byte(gitconfig), 0o644))

	email, err := NewCollector(ExecRunner{Home: homeDir}, homeDir, logger.Nop()).
		AuthorEmail(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "dev@example.com", email)

	_, err = NewCollector(ExecRunner{}, homeDir, logger.Nop()).
		AuthorEmail(context.Background(), "")
	assert.True(t, errors.Is(err, errors.ErrCodeUserEmailNotFound))
}
