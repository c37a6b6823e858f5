package main

import (
	"fmt"
	"os"

	"github.com/nahidhasan98/status-report-assistant/cmd/status-report/commands"
	"github.com/nahidhasan98/status-report-assistant/internal/errors"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errors.Describe(err))
		os.Exit(1)
	}
}
