package commands

import (
	"fmt"
	"os"

	"github.com/nahidhasan98/status-report-assistant/internal/config"
	"github.com/nahidhasan98/status-report-assistant/internal/gitlog"
	"github.com/nahidhasan98/status-report-assistant/internal/githubsearch"
	"github.com/nahidhasan98/status-report-assistant/internal/logger"
	"github.com/nahidhasan98/status-report-assistant/internal/mail"
	"github.com/nahidhasan98/status-report-assistant/internal/tools"
)

// app holds the configured services shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	worklog *gitlog.Collector
	github  *githubsearch.Client
	mail    *mail.Drafter
	toolset *tools.Toolset
}

// newApp loads configuration and wires the services. override, when
// non-nil, adjusts the loaded config before it is validated again.
func newApp(override func(*config.Config)) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if override != nil {
		override(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	collector := gitlog.NewCollector(gitlog.ExecRunner{Binary: cfg.Git.Binary, Home: cfg.HomeDir}, cfg.HomeDir, log)

	gh, err := githubsearch.New(cfg.GitHub, log)
	if err != nil {
		return nil, err
	}

	// The consent URL goes to stderr; stdout carries the stdio transport
	flow := mail.NewLocalServerFlow(os.Stderr, cfg.Gmail.CallbackTimeout, log)
	drafter := mail.NewDrafter(cfg.Gmail, cfg.HomeDir, flow, log)

	return &app{
		cfg:     cfg,
		log:     log,
		worklog: collector,
		github:  gh,
		mail:    drafter,
		toolset: tools.New(collector, gh, drafter, cfg.HomeDir, log),
	}, nil
}
