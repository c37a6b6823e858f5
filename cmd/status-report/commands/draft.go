package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nahidhasan98/status-report-assistant/internal/models"
	"github.com/nahidhasan98/status-report-assistant/internal/tools"
	"github.com/nahidhasan98/status-report-assistant/internal/validation"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Save a draft email in your Gmail mailbox",
		Long: "Saves a plain-text draft. The first run opens a Google consent flow; " +
			"the authorized token is stored at CREDENTIAL_TOKEN for later runs.",
		Example: "  status-report worklog ~/src/api --after \"1 week ago\" | status-report draft --to boss@example.com --subject \"Weekly status\" --content-file -",
		RunE: func(cmd *cobra.Command, args []string) error {
			to, _ := cmd.Flags().GetStringSlice("to")
			subject, _ := cmd.Flags().GetString("subject")
			content, _ := cmd.Flags().GetString("content")
			contentFile, _ := cmd.Flags().GetString("content-file")

			if contentFile != "" {
				b, err := readContent(cmd.InOrStdin(), contentFile)
				if err != nil {
					return err
				}
				content = string(b)
			}

			req := models.DraftRequest{To: to, Subject: subject, Content: content}
			if appErr := validation.New().ValidateDraftRequest(&req); appErr != nil {
				return appErr
			}

			a, err := newApp(nil)
			if err != nil {
				return err
			}

			result, err := a.mail.CreateDraft(cmd.Context(), req)
			if err != nil {
				return err
			}
			return render(cmd, result, fmt.Sprintf("%s (draft %s)", tools.DraftCreatedMessage, result.ID))
		},
	}

	cmd.Flags().StringSlice("to", nil, "Recipient address (repeatable)")
	cmd.Flags().String("subject", "", "Subject line")
	cmd.Flags().String("content", "", "Body text")
	cmd.Flags().String("content-file", "", "Read the body from a file, or - for stdin")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return cmd
}

func readContent(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content file: %w", err)
	}
	return b, nil
}
