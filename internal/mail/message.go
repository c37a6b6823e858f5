package mail

import (
	"encoding/base64"
	"mime"
	"net/mail"
	"strings"

	"github.com/nahidhasan98/status-report-assistant/internal/models"
)

const bodyLineLength = 76

// RawMessage renders req as an RFC 822 plain-text message, base64url encoded
// for the Gmail "raw" field. The sender is left to the provider.
func RawMessage(req models.DraftRequest) string {
	var sb strings.Builder
	sb.WriteString("To: " + addressList(req.To) + "\r\n")
	sb.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", req.Subject) + "\r\n")
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	sb.WriteString("Content-Transfer-Encoding: base64\r\n")
	sb.WriteString("\r\n")

	body := base64.StdEncoding.EncodeToString([]byte(req.Content))
	for len(body) > bodyLineLength {
		sb.WriteString(body[:bodyLineLength] + "\r\n")
		body = body[bodyLineLength:]
	}
	sb.WriteString(body + "\r\n")

	return base64.URLEncoding.EncodeToString([]byte(sb.String()))
}

// addressList renders recipients for the To header. Display names are
// RFC 2047 encoded; unparsable entries are passed through.
func addressList(to []string) string {
	rendered := make([]string, 0, len(to))
	for _, raw := range to {
		addr, err := mail.ParseAddress(raw)
		switch {
		case err != nil:
			rendered = append(rendered, raw)
		case addr.Name == "":
			rendered = append(rendered, addr.Address)
		default:
			rendered = append(rendered, addr.String())
		}
	}
	return strings.Join(rendered, ", ")
}
