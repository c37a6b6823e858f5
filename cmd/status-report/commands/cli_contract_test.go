package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nahidhasan98/status-report-assistant/internal/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// isolate keeps config loading away from the caller's .env and environment
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("MCP_TRANSPORT", "stdio")
	t.Setenv("HOME_DIR", "/home/dev")
}

func TestCLIContract(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)

	for _, c := range []string{"completion", "draft", "github", "help", "home", "serve", "version", "worklog"} {
		assert.Contains(t, out, c, "expected top-level command %q in root help", c)
	}
}

func TestVersion(t *testing.T) {
	t.Setenv("STATUS_REPORT_VERSION", "1.2.3")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "status-report version 1.2.3\n", out)
}

func TestHome(t *testing.T) {
	isolate(t)

	out, err := execute(t, "home")
	require.NoError(t, err)
	assert.Equal(t, "/home/dev\n", out)

	out, err = execute(t, "home", "-o", "json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"home_dir": "/home/dev"}`, out)

	out, err = execute(t, "home", "--output", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "home_dir: /home/dev\n", out)
}

func TestUnknownOutputFormat(t *testing.T) {
	isolate(t)

	_, err := execute(t, "home", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown output format "xml"`)
}

func TestArgumentsAreValidatedBeforeLoadingConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MCP_TRANSPORT", "carrier-pigeon")

	_, err := execute(t, "worklog", "--after", "2024-01-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'dirs' must name at least one directory")

	_, err = execute(t, "github", "octocat", "--after", "last week")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid 'after' date")

	_, err = execute(t, "draft", "--to", "nobody", "--subject", "s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid recipient address: nobody")

	_, err = execute(t, "home")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid MCP transport")
}

func TestServeRejectsUnknownTransport(t *testing.T) {
	isolate(t)

	_, err := execute(t, "serve", "--transport", "carrier-pigeon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid MCP transport")
}

func TestActivityText(t *testing.T) {
	activity := models.NewGitHubActivity(
		[]models.ActivityItem{{Title: "Fix parser", URL: "https://github.com/o/r/pull/1"}},
		[]models.ActivityItem{
			{Title: "Fix parser", URL: "https://github.com/o/r/pull/1"},
			{Title: "Add cache", URL: "https://github.com/o/r/pull/2"},
		},
		nil,
	)

	want := strings.Join([]string{
		"Merged pull requests (1)",
		"  - Fix parser <https://github.com/o/r/pull/1>",
		"",
		"Created pull requests (1)",
		"  - Add cache <https://github.com/o/r/pull/2>",
		"",
		"Created issues (0)",
		"",
	}, "\n")
	assert.Equal(t, want, activityText(activity))
}

func TestReadContent(t *testing.T) {
	b, err := readContent(strings.NewReader("from stdin"), "-")
	require.NoError(t, err)
	assert.Equal(t, "from stdin", string(b))

	_, err = readContent(nil, "/does/not/exist")
	assert.Error(t, err)
}

func TestWriteWorkLog(t *testing.T) {
	wl := &models.WorkLog{}
	wl.Add("/repo", []string{"commit abc"})

	var buf bytes.Buffer
	require.NoError(t, write(&buf, formatYAML, wl, wl.String()))
	assert.Equal(t, "entries:\n  - dir: /repo\n    commits:\n      - commit abc\n", buf.String())

	buf.Reset()
	require.NoError(t, write(&buf, formatText, wl, wl.String()))
	assert.Equal(t, "commit abc\n\n", buf.String())
}
